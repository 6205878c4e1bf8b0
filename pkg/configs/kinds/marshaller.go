package kinds

import (
	"os"

	"github.com/opst/skein/pkg/domain/kind"
	"gopkg.in/yaml.v3"
)

// KindManifestMarshall is a standalone kind manifest file.
//
// It shares the `kinds:` section shape with the server config, so a server
// config file also reads as a manifest.
type KindManifestMarshall struct {
	Kinds []*KindConfigMarshall `yaml:"kinds"`
}

var _ Marshalled[[]kind.Kind] = &KindManifestMarshall{}

func (m *KindManifestMarshall) trySeal(path string) []kind.Kind {
	return TrySealAll(path+".kinds", m.Kinds)
}

// load kind declarations from a manifest file.
//
// args:
//   - filepath: filepath refers a manifest file.
//
// returns []kind.Kind, error:
//
//	When loading success, returns `([]kind.Kind, nil)`.
//	Otherwise, returns `(nil, error)`.
func LoadKindManifest(filepath string) ([]kind.Kind, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

func Unmarshal(conf []byte) (out []kind.Kind, err error) {
	var _out *KindManifestMarshall
	err = yaml.Unmarshal(conf, &_out)
	if err != nil {
		return nil, err
	}
	out = TrySeal(_out)
	return out, nil
}
