package skillspace

import (
	"fmt"
	"strings"

	"github.com/dshills/skillspace-mcp/internal/embedding"
	"github.com/dshills/skillspace-mcp/pkg/types"
)

// APISeparator splits the free-text API list of a request
const APISeparator = ";"

// Composer turns a contributor profile into a query vector
type Composer struct {
	store embedding.Store
}

// NewComposer creates a composer over store
func NewComposer(store embedding.Store) *Composer {
	return &Composer{store: store}
}

// SplitAPIs splits apiText on ";" and drops empty, whitespace-only segments
func SplitAPIs(apiText string) []string {
	var apis []string
	for _, seg := range strings.Split(apiText, APISeparator) {
		if seg = strings.TrimSpace(seg); seg != "" {
			apis = append(apis, seg)
		}
	}
	return apis
}

// ComposeExpertise sums the anchor vector of every language tag and the
// token vector of every API. The first API missing from the token
// vocabulary aborts composition with a *types.MissingTokenError.
func (c *Composer) ComposeExpertise(languages []string, apiText string) (types.Vector, error) {
	if len(languages) == 0 {
		return nil, types.ErrNoLanguage
	}

	apis, err := c.tokenVectors(apiText)
	if err != nil {
		return nil, err
	}

	query := types.NewVector(c.store.Dimension())
	for _, lang := range languages {
		v, err := c.anchor(lang)
		if err != nil {
			return nil, err
		}
		if err := query.Add(v); err != nil {
			return nil, err
		}
	}
	for _, v := range apis {
		if err := query.Add(v); err != nil {
			return nil, err
		}
	}
	return query, nil
}

// ComposeTransfer builds anchor(dest) - anchor(source) + tokens. Callers
// are expected to pass distinct languages.
func (c *Composer) ComposeTransfer(source, dest, apiText string) (types.Vector, error) {
	apis, err := c.tokenVectors(apiText)
	if err != nil {
		return nil, err
	}

	src, err := c.anchor(source)
	if err != nil {
		return nil, err
	}
	dst, err := c.anchor(dest)
	if err != nil {
		return nil, err
	}

	query := types.NewVector(c.store.Dimension())
	if err := query.Add(dst); err != nil {
		return nil, err
	}
	if err := query.Sub(src); err != nil {
		return nil, err
	}
	for _, v := range apis {
		if err := query.Add(v); err != nil {
			return nil, err
		}
	}
	return query, nil
}

// tokenVectors resolves every API of apiText in input order
func (c *Composer) tokenVectors(apiText string) ([]types.Vector, error) {
	apis := SplitAPIs(apiText)
	vectors := make([]types.Vector, 0, len(apis))
	for _, api := range apis {
		v, ok := c.store.TokenVector(api)
		if !ok {
			return nil, &types.MissingTokenError{Token: api}
		}
		vectors = append(vectors, v)
	}
	return vectors, nil
}

func (c *Composer) anchor(tag string) (types.Vector, error) {
	v, ok := c.store.AnchorVector(tag)
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrUnknownLanguage, tag)
	}
	return v, nil
}
