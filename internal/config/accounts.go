package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"social_watcher/internal/domain"
)

// RawAccount is one social_networks entry as written in the config file.
// The id field accepts either a single scalar or a list of ids.
type RawAccount struct {
	Type            string       `yaml:"type"`
	SocialNetworkID StringOrList `yaml:"socialNetworkId"`
	Prompt          string       `yaml:"prompt"`
	WeComRobotID    string       `yaml:"weComRobotId"`
}

// StringOrList decodes a yaml scalar into a one-element slice and a yaml
// sequence into its elements.
type StringOrList []string

func (s *StringOrList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var single string
		if err := node.Decode(&single); err != nil {
			return err
		}
		*s = StringOrList{single}
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := node.Decode(&many); err != nil {
			return err
		}
		*s = StringOrList(many)
		return nil
	default:
		return fmt.Errorf("socialNetworkId must be a string or a list of strings")
	}
}

// Normalize expands list-valued ids into one account per non-empty element,
// preserving element order and copying all other fields. Empty ids are
// dropped so every returned account has a scalar, non-empty SourceID.
func Normalize(raw []RawAccount) []domain.Account {
	var accounts []domain.Account
	for _, r := range raw {
		for _, id := range r.SocialNetworkID {
			if id == "" {
				continue
			}
			accounts = append(accounts, domain.Account{
				Platform:     r.Type,
				SourceID:     id,
				Prompt:       r.Prompt,
				WeComRobotID: r.WeComRobotID,
			})
		}
	}
	return accounts
}
