package descriptors

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// InitYAML writes the keys of a YAML mapping to the attributes of the same
// name, with the same rules as Init. An empty or null document writes nothing;
// a null value is written as nil, like a JSON null.
func (c *Class) InitYAML(inst Owner, data []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil
		}
		root = root.Content[0]
	}
	if root.Kind == 0 || (root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null") {
		return nil
	}
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: got YAML node %s", ErrInvalidDocument, root.ShortTag())
	}

	members := make(map[string]*yaml.Node, len(root.Content)/2)
	names := make([]string, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		if _, seen := members[name]; !seen {
			names = append(names, name)
		}
		members[name] = root.Content[i+1]
	}

	return c.assign(inst, names, func(d Descriptor) error {
		member := members[d.Name()]
		if member.ShortTag() == "!!null" {
			return d.WriteAny(inst, nil)
		}
		return d.decode(inst, member.Decode)
	})
}
