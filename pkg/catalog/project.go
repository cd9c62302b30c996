package catalog

import (
	"encoding/json"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/styloxis/honeycomb/pkg/errors"
)

// CenterRing is the ring of the single distinguished center project.
const CenterRing = 0

// Project is one portfolio entry. Records are immutable after load.
//
// The title is serialized as "titre", the key used by the published data
// files; "title" is accepted on input as an alias.
type Project struct {
	ID          string   `json:"id" yaml:"id" bson:"id"`
	Ring        int      `json:"ring" yaml:"ring" bson:"ring"`
	Angle       float64  `json:"angle" yaml:"angle" bson:"angle"`
	Title       string   `json:"titre" yaml:"titre" bson:"titre"`
	Image       string   `json:"image" yaml:"image" bson:"image"`
	Description string   `json:"description" yaml:"description" bson:"description"`
	Tags        []string `json:"tags" yaml:"tags" bson:"tags"`
	URL         string   `json:"url" yaml:"url" bson:"url"`
}

// IsCenter reports whether p is the center project.
func (p Project) IsCenter() bool { return p.Ring == CenterRing }

// Validate checks a single record in isolation.
func (p Project) Validate() error {
	if p.ID == "" {
		return errors.New(errors.ErrCodeInvalidCatalog, "project without id")
	}
	if p.Ring < 0 {
		return errors.New(errors.ErrCodeInvalidCatalog, "project %s: negative ring %d", p.ID, p.Ring)
	}
	if math.IsNaN(p.Angle) || p.Angle < 0 || p.Angle >= 360 {
		return errors.New(errors.ErrCodeInvalidCatalog, "project %s: angle %g outside [0,360)", p.ID, p.Angle)
	}
	return nil
}

// projectAlias has the same fields as Project without its methods.
type projectAlias Project

type projectInput struct {
	projectAlias `yaml:",inline"`
	AltTitle     string `json:"title" yaml:"title"`
}

// UnmarshalJSON accepts both "titre" and "title".
func (p *Project) UnmarshalJSON(data []byte) error {
	var in projectInput
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("decode project: %w", err)
	}
	*p = Project(in.projectAlias)
	if p.Title == "" {
		p.Title = in.AltTitle
	}
	return nil
}

// UnmarshalYAML accepts both "titre" and "title".
func (p *Project) UnmarshalYAML(node *yaml.Node) error {
	var in projectInput
	if err := node.Decode(&in); err != nil {
		return fmt.Errorf("decode project: %w", err)
	}
	*p = Project(in.projectAlias)
	if p.Title == "" {
		p.Title = in.AltTitle
	}
	return nil
}
