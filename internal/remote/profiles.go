package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/jonathan/job-assistant/internal/types"
)

// GetProfile implements editor.Store. A 404 maps to types.ErrProfileNotFound.
func (c *Client) GetProfile(ctx context.Context, userID string) (*types.ResumeProfile, error) {
	const endpoint = "GET /profiles/clerk/{id}"
	base, err := c.base(endpoint, c.cfg.ProfileURL)
	if err != nil {
		return nil, err
	}

	resp, err := c.call(ctx, endpoint, http.MethodGet, base+"/profiles/clerk/"+url.PathEscape(userID), c.http.R())
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, types.ErrProfileNotFound
		}
		return nil, err
	}
	return decodeProfile(endpoint, resp.Body(), userID)
}

// CreateProfile implements editor.Store.
func (c *Client) CreateProfile(ctx context.Context, p *types.ResumeProfile) (*types.ResumeProfile, error) {
	const endpoint = "POST /profiles"
	base, err := c.base(endpoint, c.cfg.ProfileURL)
	if err != nil {
		return nil, err
	}
	body, err := c.encodeProfile(p)
	if err != nil {
		return nil, err
	}

	resp, err := c.call(ctx, endpoint, http.MethodPost, base+"/profiles",
		c.http.R().SetHeader("Content-Type", "application/json").SetBody(body))
	if err != nil {
		return nil, err
	}
	return decodeProfile(endpoint, resp.Body(), p.UserID)
}

// UpdateSection implements editor.Store. The whole section is sent under
// its canonical key, or under its v1 key and shape when the service still
// stores legacy profiles.
func (c *Client) UpdateSection(ctx context.Context, userID string, section types.Section, value any) (*types.ResumeProfile, error) {
	const endpoint = "PUT /profiles/clerk/{id}"
	base, err := c.base(endpoint, c.cfg.ProfileURL)
	if err != nil {
		return nil, err
	}

	var body any = map[string]any{string(section): value}
	if c.cfg.LegacyProfiles {
		key, raw, err := types.EncodeLegacySection(section, value)
		if err != nil {
			return nil, err
		}
		body = map[string]json.RawMessage{key: raw}
	}

	resp, err := c.call(ctx, endpoint, http.MethodPut, base+"/profiles/clerk/"+url.PathEscape(userID),
		c.http.R().SetBody(body))
	if err != nil {
		return nil, err
	}
	return decodeProfile(endpoint, resp.Body(), userID)
}

// ReplaceResume implements editor.Store.
func (c *Client) ReplaceResume(ctx context.Context, userID string, p *types.ResumeProfile) (*types.ResumeProfile, error) {
	const endpoint = "PATCH /profiles/clerk/{id}/resume"
	base, err := c.base(endpoint, c.cfg.ProfileURL)
	if err != nil {
		return nil, err
	}
	body, err := c.encodeProfile(p)
	if err != nil {
		return nil, err
	}

	resp, err := c.call(ctx, endpoint, http.MethodPatch, base+"/profiles/clerk/"+url.PathEscape(userID)+"/resume",
		c.http.R().SetHeader("Content-Type", "application/json").SetBody(body))
	if err != nil {
		return nil, err
	}
	return decodeProfile(endpoint, resp.Body(), userID)
}

func (c *Client) encodeProfile(p *types.ResumeProfile) ([]byte, error) {
	if c.cfg.LegacyProfiles {
		return types.EncodeLegacy(p)
	}
	return json.Marshal(p)
}

// decodeProfile accepts a bare profile or one wrapped in {"profile": ...}
// or {"data": ...}, in either the canonical or the v1 shape.
func decodeProfile(endpoint string, body []byte, userID string) (*types.ResumeProfile, error) {
	p, err := types.DecodeProfile(unwrapData(body, "profile"))
	if err != nil {
		return nil, malformed(endpoint, err)
	}
	if p.UserID == "" {
		p.UserID = userID
	}
	return p, nil
}
