package catalog

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Aux holds sparse per-id lookup tables rendered as debug footnotes in the
// detail modal. A missing id means "not applicable".
type Aux struct {
	Monitoring     map[string]bool    `yaml:"monitoring"`
	Repository     map[string]RepoRef `yaml:"repository"`
	CustomAvatar   map[string]bool    `yaml:"custom_avatar"`
	StatusPresence map[string]bool    `yaml:"status_presence"`
}

// Flag is a tri-state lookup result.
type Flag int

const (
	FlagAbsent Flag = iota
	FlagYes
	FlagNo
)

func lookupFlag(m map[string]bool, id string) Flag {
	v, ok := m[id]
	switch {
	case !ok:
		return FlagAbsent
	case v:
		return FlagYes
	default:
		return FlagNo
	}
}

// MonitoringFor reports the monitoring flag for id.
func (a Aux) MonitoringFor(id string) Flag { return lookupFlag(a.Monitoring, id) }

// CustomAvatarFor reports the custom-avatar flag for id.
func (a Aux) CustomAvatarFor(id string) Flag { return lookupFlag(a.CustomAvatar, id) }

// StatusPresenceFor reports the status-presence flag for id.
func (a Aux) StatusPresenceFor(id string) Flag { return lookupFlag(a.StatusPresence, id) }

// RepositoryFor returns the repository reference for id; absent ids yield a
// RepoAbsent reference.
func (a Aux) RepositoryFor(id string) RepoRef {
	if ref, ok := a.Repository[id]; ok {
		return ref
	}
	return RepoRef{}
}

// RepoKind enumerates the mixed shapes a repository reference can take.
type RepoKind int

const (
	RepoAbsent RepoKind = iota
	RepoURL
	RepoLabel
	RepoNone
)

// RepoRef is a URL, a textual status, an explicit false, or absent.
type RepoRef struct {
	Kind  RepoKind
	Value string
}

// UnmarshalYAML keeps the source's mixed typing: `false` becomes RepoNone,
// http(s) strings become RepoURL, any other string RepoLabel.
func (r *RepoRef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("repository: expected scalar at line %d", node.Line)
	}
	switch node.Tag {
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		if b {
			// "true" carries no reference; treat it like an unlabeled entry.
			*r = RepoRef{Kind: RepoLabel, Value: node.Value}
			return nil
		}
		*r = RepoRef{Kind: RepoNone}
	case "!!null":
		*r = RepoRef{}
	default:
		v := strings.TrimSpace(node.Value)
		if strings.HasPrefix(v, "https://") || strings.HasPrefix(v, "http://") {
			*r = RepoRef{Kind: RepoURL, Value: v}
		} else {
			*r = RepoRef{Kind: RepoLabel, Value: v}
		}
	}
	return nil
}
