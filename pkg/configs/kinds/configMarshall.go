package kinds

import (
	"fmt"

	"github.com/opst/skein/pkg/domain/kind"
	"github.com/opst/skein/pkg/utils/slices"
)

type Marshalled[S any] interface {
	trySeal(string) S
}

// seal marshalled object.
//
// this function CAN CAUSE PANIC if misconfiguration is found.
//
// All types named `pkg/configs/kinds.XxxMarshall` are `Marshalled[Xxx]` .
func TrySeal[S any](conf Marshalled[S]) S {
	return conf.trySeal("(root)")
}

// TrySealAll seals kind declarations into registry-ready kinds.
//
// this function CAN CAUSE PANIC if misconfiguration is found.
//
// args:
//   - path: where the declarations are in their config file, for panic messages.
//   - decls: declarations to be sealed.
func TrySealAll(path string, decls []*KindConfigMarshall) []kind.Kind {
	if len(decls) == 0 {
		panic(path + " is required")
	}
	return slices.Map(decls, func(k *KindConfigMarshall) kind.Kind {
		return nonnil(k, path+"[]").trySeal(path + "[]")
	})
}

// Declaration of a kind in the manifest.
//
// This type is marshalling value and mutable.
// Consider to use the sealed version, `kind.Kind`.
type KindConfigMarshall struct {
	Name     string                       `yaml:"name"`
	Group    string                       `yaml:"group"`
	Resource string                       `yaml:"resource"`
	Scope    string                       `yaml:"scope,omitempty"`
	Storage  string                       `yaml:"storage,omitempty"`
	Versions []*KindVersionConfigMarshall `yaml:"versions"`
}

func (km *KindConfigMarshall) trySeal(path string) kind.Kind {
	var scope kind.Scope
	switch km.Scope {
	case "", string(kind.ScopeNamespaced):
		scope = kind.ScopeNamespaced
	case string(kind.ScopeCluster):
		scope = kind.ScopeCluster
	default:
		panic(fmt.Sprintf(
			"%s.scope must be %s or %s", path, kind.ScopeNamespaced, kind.ScopeCluster,
		))
	}

	group := required(km.Group, path+".group")
	if len(km.Versions) == 0 {
		panic(path + ".versions is required")
	}

	return kind.Kind{
		Name:     required(km.Name, path+".name"),
		Group:    group,
		Resource: required(km.Resource, path+".resource"),
		Scope:    scope,
		Storage:  km.Storage,
		Versions: slices.Map(km.Versions, func(v *KindVersionConfigMarshall) kind.Version {
			return nonnil(v, path+".versions[]").trySeal(path+".versions[]", group)
		}),
	}
}

type KindVersionConfigMarshall struct {
	Label  string `yaml:"label"`
	Served *bool  `yaml:"served,omitempty"`
}

func (vm *KindVersionConfigMarshall) trySeal(path string, group string) kind.Version {
	served := true
	if vm.Served != nil {
		served = *vm.Served
	}
	label := required(vm.Label, path+".label")
	return kind.Version{
		Version: label,
		Served:  served,
		Codec:   kind.RawCodec(group, label),
	}
}

func nonnil[T any](v *T, path string) *T {
	if v == nil {
		panic(path + " is required")
	}
	return v
}

func required[T comparable](v T, path string) T {
	if v == *new(T) {
		panic(path + " is required")
	}
	return v
}
