package dto

// Manifest is the on-disk description of a graph.
// It uses "mapstructure" tags so YAML and JSON documents decode through the same path.
type Manifest struct {
	Name        string     `json:"name" mapstructure:"name"`
	Description string     `json:"description,omitempty" mapstructure:"description"`
	Nodes       []NodeSpec `json:"nodes" mapstructure:"nodes"`
}

// NodeSpec describes one node.
type NodeSpec struct {
	ID   string `json:"id" mapstructure:"id"`
	Kind string `json:"kind" mapstructure:"kind"`

	// Constant payload, or the initial value of a value node.
	Value any `json:"value,omitempty" mapstructure:"value"`
	// Fallback of clamp and value nodes.
	Default any `json:"default,omitempty" mapstructure:"default"`

	// Remote Config
	Route  string            `json:"route,omitempty" mapstructure:"route"`
	Params map[string]string `json:"params,omitempty" mapstructure:"params"`

	// Clamp Config
	Source string `json:"source,omitempty" mapstructure:"source"`
	IDKey  string `json:"id_key,omitempty" mapstructure:"id_key"`

	// Aggregate Config
	Fields []FieldSpec `json:"fields,omitempty" mapstructure:"fields"`

	Dependencies []DependencySpec `json:"dependencies,omitempty" mapstructure:"dependencies"`
	Passive      bool             `json:"passive,omitempty" mapstructure:"passive"`
	Writable     bool             `json:"writable,omitempty" mapstructure:"writable"`
}

// FieldSpec is one aggregate entry.
type FieldSpec struct {
	Key string `json:"key" mapstructure:"key"`
	Ref string `json:"ref" mapstructure:"ref"`
}

// DependencySpec is an explicit edge. In documents it may also be written as a bare id.
type DependencySpec struct {
	ID        string `json:"id" mapstructure:"id"`
	ResetOnly bool   `json:"reset_only,omitempty" mapstructure:"reset_only"`
}
