// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tour

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/wee-saviya/i18n"
	"github.com/danielhkuo/wee-saviya/models"
)

var (
	ErrRoleNotFound   = errors.New("tour not found for this user role")
	ErrScreenNotFound = errors.New("tour not found for this screen")
	ErrInvalidCatalog = errors.New("invalid tour catalog")
)

//go:embed data/tours.yaml
var defaultCatalog []byte

// Step is one guided-tour step as defined in the catalog.
type Step struct {
	ID            string    `yaml:"id"`
	Title         i18n.Text `yaml:"title"`
	Description   i18n.Text `yaml:"description"`
	TargetElement string    `yaml:"target"`
	Position      string    `yaml:"position"`
	ShowFor       int       `yaml:"show_for"`
}

// LocalizedStep is a Step resolved for one language.
type LocalizedStep struct {
	ID            string `json:"id"`
	Order         int    `json:"order"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	TargetElement string `json:"targetElement"`
	Position      string `json:"position"`
	ShowFor       int    `json:"showFor"`
	IsLastStep    bool   `json:"isLastStep"`
}

type Tour struct {
	UserRole   string          `json:"userRole"`
	ScreenName string          `json:"screenName"`
	Language   string          `json:"language"`
	TotalSteps int             `json:"totalSteps"`
	Steps      []LocalizedStep `json:"steps"`
}

type StepPreview struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ScreenSummary struct {
	ScreenName string      `json:"screenName"`
	StepCount  int         `json:"stepCount"`
	FirstStep  StepPreview `json:"firstStep"`
}

type Overview struct {
	UserRole         string          `json:"userRole"`
	Language         string          `json:"language"`
	AvailableScreens []ScreenSummary `json:"availableScreens"`
}

type screen struct {
	name  string
	steps []Step
}

// Catalog is the immutable role → screen → steps table.
type Catalog struct {
	roles map[string][]screen
}

type catalogFile struct {
	Roles []struct {
		Role    string `yaml:"role"`
		Screens []struct {
			Screen string `yaml:"screen"`
			Steps  []Step `yaml:"steps"`
		} `yaml:"screens"`
	} `yaml:"roles"`
}

// Default returns the catalog built from the embedded tour scripts.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// LoadFile builds a catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tour file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load builds a catalog from YAML. Every role must be a known user role,
// every screen must have at least one step, and every step must have an
// English title and description.
func Load(r io.Reader) (*Catalog, error) {
	var cf catalogFile
	if err := yaml.NewDecoder(r).Decode(&cf); err != nil {
		return nil, fmt.Errorf("failed to decode tour catalog: %w", err)
	}

	c := &Catalog{roles: make(map[string][]screen)}
	for _, role := range cf.Roles {
		name := normalizeKey(role.Role)
		if !models.IsValidRole(name) {
			return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidCatalog, role.Role)
		}
		if _, dup := c.roles[name]; dup {
			return nil, fmt.Errorf("%w: duplicate role %q", ErrInvalidCatalog, name)
		}

		screens := make([]screen, 0, len(role.Screens))
		seen := make(map[string]bool)
		for _, sc := range role.Screens {
			screenName := normalizeKey(sc.Screen)
			if screenName == "" || seen[screenName] {
				return nil, fmt.Errorf("%w: missing or duplicate screen under %q", ErrInvalidCatalog, name)
			}
			if len(sc.Steps) == 0 {
				return nil, fmt.Errorf("%w: screen %s/%s has no steps", ErrInvalidCatalog, name, screenName)
			}
			for _, step := range sc.Steps {
				if step.Title[i18n.Default] == "" || step.Description[i18n.Default] == "" {
					return nil, fmt.Errorf("%w: step %q in %s/%s lacks English text", ErrInvalidCatalog, step.ID, name, screenName)
				}
			}
			seen[screenName] = true
			screens = append(screens, screen{name: screenName, steps: sc.Steps})
		}
		c.roles[name] = screens
	}

	return c, nil
}

// Tour returns the localized steps for one role and screen.
// Role and screen are echoed as supplied.
func (c *Catalog) Tour(role, screenName, lang string) (Tour, error) {
	screens, ok := c.roles[normalizeKey(role)]
	if !ok {
		return Tour{}, ErrRoleNotFound
	}

	key := normalizeKey(screenName)
	for _, sc := range screens {
		if sc.name != key {
			continue
		}
		steps := make([]LocalizedStep, len(sc.steps))
		for i, step := range sc.steps {
			steps[i] = LocalizedStep{
				ID:            step.ID,
				Order:         i + 1,
				Title:         step.Title.Resolve(lang),
				Description:   step.Description.Resolve(lang),
				TargetElement: step.TargetElement,
				Position:      step.Position,
				ShowFor:       step.ShowFor,
				IsLastStep:    i == len(sc.steps)-1,
			}
		}
		return Tour{
			UserRole:   role,
			ScreenName: screenName,
			Language:   lang,
			TotalSteps: len(steps),
			Steps:      steps,
		}, nil
	}

	return Tour{}, ErrScreenNotFound
}

// List summarizes every screen tour available to a role, previewing only
// the first step of each.
func (c *Catalog) List(role, lang string) (Overview, error) {
	screens, ok := c.roles[normalizeKey(role)]
	if !ok {
		return Overview{}, ErrRoleNotFound
	}

	summaries := make([]ScreenSummary, 0, len(screens))
	for _, sc := range screens {
		first := sc.steps[0]
		summaries = append(summaries, ScreenSummary{
			ScreenName: sc.name,
			StepCount:  len(sc.steps),
			FirstStep: StepPreview{
				Title:       first.Title.Resolve(lang),
				Description: first.Description.Resolve(lang),
			},
		})
	}

	return Overview{
		UserRole:         role,
		Language:         lang,
		AvailableScreens: summaries,
	}, nil
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
