package config

import "gopkg.in/yaml.v3"

// oneOrMany decodes a YAML scalar or sequence of strings into a slice,
// promoting a bare scalar to a one-element sequence (§4.1). This
// mirrors aquaform.py's `data['x'] if isinstance(data['x'], list) else
// [data['x']]` pattern at the decode boundary instead of at every call
// site.
type oneOrMany []string

func (o *oneOrMany) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var single string
		if err := value.Decode(&single); err != nil {
			return err
		}
		*o = oneOrMany{single}
		return nil
	}

	var many []string
	if err := value.Decode(&many); err != nil {
		return err
	}
	*o = oneOrMany(many)
	return nil
}
