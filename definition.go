package roleguard

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Definition is the YAML form of a registry, used to bootstrap roles from
// a config file.
//
// Example:
//
//	admins:
//	  - "4711"
//	roles:
//	  helpers:
//	    members: ["42"]
//	    children: [moderators]
//	  moderators:
//	    members: ["1003", "1004"]
type Definition struct {
	Admins []string                  `yaml:"admins"`
	Roles  map[string]RoleDefinition `yaml:"roles"`
}

// RoleDefinition is one role entry in a Definition.
type RoleDefinition struct {
	Members  []string `yaml:"members"`
	Children []string `yaml:"children"`
}

// ParseDefinition parses a YAML definition into a snapshot. Admin members
// are declared at the top level, so a roles entry named after the admin
// role is rejected.
func ParseDefinition(data []byte) (Snapshot, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("roleguard: parse definition: %w", err)
	}

	snap := make(Snapshot, len(def.Roles)+1)
	snap[AdminRoleName] = RoleState{Members: def.Admins}
	for name, role := range def.Roles {
		if name == AdminRoleName {
			return nil, NewError(ErrDuplicateRole, "the admins entry is declared at the top level").
				WithRole(name)
		}
		snap[name] = RoleState{Members: role.Members, Children: role.Children}
	}
	return snap, nil
}

// LoadDefinition reads a YAML definition and restores a registry from it.
// Child references to undeclared roles and cyclic links fail the same way
// Restore fails.
func LoadDefinition(r io.Reader, opts ...Option) (*Registry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("roleguard: read definition: %w", err)
	}
	snap, err := ParseDefinition(data)
	if err != nil {
		return nil, err
	}
	return Restore(snap, opts...)
}
