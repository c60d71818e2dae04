// Package locator parses the session descriptor encoded in a page URL.
package locator

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jungleai/curveclean-go/pkg/curveclean/models"
)

// Required query parameter names.
const (
	ParamUUID            = "uuid"
	ParamPlot            = "plot"
	ParamAssets          = "assets"
	ParamXName           = "x_name"
	ParamYName           = "y_name"
	ParamStages          = "stages"
	ParamPointGroupNames = "point_group_names"
)

// ErrInvalidURL indicates the page URL does not parse.
var ErrInvalidURL = errors.New("invalid url provided")

// ErrMissingParam indicates a required query parameter is absent.
var ErrMissingParam = errors.New("missing url parameter")

// MissingParamError names the absent query parameter.
type MissingParamError struct {
	Name string
}

func (e *MissingParamError) Error() string {
	return fmt.Sprintf("invalid url provided: %s not found", e.Name)
}

// Is matches ErrMissingParam.
func (e *MissingParamError) Is(target error) bool {
	return target == ErrMissingParam
}

// Parse extracts the session descriptor from a page URL.
// Every parameter is consumed once, so a group key that repeats in
// point_group_names or shadows a reserved name fails as missing.
func Parse(rawURL string) (*models.Session, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	return FromQuery(u.Query())
}

// FromQuery extracts the session descriptor from already decoded query values.
// The values are consumed in place.
func FromQuery(q url.Values) (*models.Session, error) {
	p := &params{q: q}

	s := &models.Session{
		UUID:   p.fetch(ParamUUID),
		Plot:   p.fetch(ParamPlot),
		Assets: splitList(p.fetch(ParamAssets)),
		XName:  p.fetch(ParamXName),
		YName:  p.fetch(ParamYName),
		Stages: splitList(p.fetch(ParamStages)),
	}
	if p.err != nil {
		return nil, p.err
	}

	groupNames := splitList(p.fetch(ParamPointGroupNames))
	if p.err != nil {
		return nil, p.err
	}

	s.GroupNames = groupNames
	s.Groups = make(map[string][]string, len(groupNames))
	for _, name := range groupNames {
		members := splitList(p.fetch(name))
		if p.err != nil {
			return nil, p.err
		}
		s.Groups[name] = members
		s.PointNames = append(s.PointNames, members...)
	}

	return s, nil
}

// params pops query values and remembers the first missing one.
type params struct {
	q   url.Values
	err error
}

func (p *params) fetch(name string) string {
	if p.err != nil {
		return ""
	}
	values, ok := p.q[name]
	if !ok || len(values) == 0 {
		p.err = &MissingParamError{Name: name}
		return ""
	}
	delete(p.q, name)
	return values[0]
}

// splitList parses a list in format a,b,c.
func splitList(s string) []string {
	return strings.Split(s, ",")
}
