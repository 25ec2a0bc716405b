package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/jonathan/job-assistant/internal/jobs"
	"github.com/jonathan/job-assistant/internal/types"
)

// SearchJobs implements jobs.Searcher.
func (c *Client) SearchJobs(ctx context.Context, f types.SearchFilters) (*types.JobPage, error) {
	const endpoint = "GET /api/job"
	base, err := c.base(endpoint, c.cfg.JobsURL)
	if err != nil {
		return nil, err
	}
	f.Normalize()

	q := map[string]string{
		"page":     strconv.Itoa(f.Page),
		"pageSize": strconv.Itoa(f.PageSize),
	}
	for key, val := range map[string]string{
		"searchText":    f.SearchText,
		"jobType":       string(f.JobType),
		"location":      f.Location,
		"datePosted":    string(f.DatePosted),
		"currentJobIds": strings.Join(f.CurrentJobIDs, ","),
	} {
		if val != "" {
			q[key] = val
		}
	}

	resp, err := c.call(ctx, endpoint, http.MethodGet, base+"/api/job", c.http.R().SetQueryParams(q))
	if err != nil {
		return nil, err
	}

	body := resp.Body()
	data := gjson.GetBytes(body, "data")
	if !data.IsArray() {
		return nil, malformed(endpoint, errMissing("data"))
	}
	page := &types.JobPage{HasMore: gjson.GetBytes(body, "hasMore").Bool()}
	if err := json.Unmarshal([]byte(data.Raw), &page.Data); err != nil {
		return nil, malformed(endpoint, err)
	}
	return page, nil
}

// RecordInteraction implements jobs.InteractionStore.
func (c *Client) RecordInteraction(ctx context.Context, req types.InteractionRequest) (*types.JobInteraction, error) {
	const endpoint = "POST /api/job-interaction"
	base, err := c.base(endpoint, c.cfg.JobsURL)
	if err != nil {
		return nil, err
	}

	resp, err := c.call(ctx, endpoint, http.MethodPost, base+"/api/job-interaction", c.http.R().SetBody(req))
	if err != nil {
		return nil, err
	}
	return decodeInteraction(endpoint, resp.Body())
}

// ListInteractions implements jobs.InteractionStore.
func (c *Client) ListInteractions(ctx context.Context, userID string, status types.InteractionStatus) ([]types.JobInteraction, error) {
	const endpoint = "GET /api/job-interactions"
	base, err := c.base(endpoint, c.cfg.JobsURL)
	if err != nil {
		return nil, err
	}

	r := c.http.R().SetQueryParam("userId", userID)
	if status != "" {
		r.SetQueryParam("status", string(status))
	}
	resp, err := c.call(ctx, endpoint, http.MethodGet, base+"/api/job-interactions", r)
	if err != nil {
		return nil, err
	}

	out := []types.JobInteraction{}
	if err := json.Unmarshal(unwrapData(resp.Body(), "interactions"), &out); err != nil {
		return nil, malformed(endpoint, err)
	}
	return out, nil
}

// UpdateInteractionStatus implements jobs.InteractionStore.
func (c *Client) UpdateInteractionStatus(ctx context.Context, userID string, id uuid.UUID, status types.InteractionStatus) (*types.JobInteraction, error) {
	const endpoint = "PATCH /api/job-interaction/{id}"
	base, err := c.base(endpoint, c.cfg.JobsURL)
	if err != nil {
		return nil, err
	}

	resp, err := c.call(ctx, endpoint, http.MethodPatch, base+"/api/job-interaction/"+id.String(),
		c.http.R().SetBody(map[string]string{"user_id": userID, "status": string(status)}))
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, jobs.ErrNotFound
		}
		return nil, err
	}
	return decodeInteraction(endpoint, resp.Body())
}

// DeleteInteraction implements jobs.InteractionStore.
func (c *Client) DeleteInteraction(ctx context.Context, userID string, id uuid.UUID) error {
	const endpoint = "DELETE /api/job-interaction/{id}"
	base, err := c.base(endpoint, c.cfg.JobsURL)
	if err != nil {
		return err
	}

	_, err = c.call(ctx, endpoint, http.MethodDelete,
		base+"/api/job-interaction/"+id.String()+"?userId="+url.QueryEscape(userID), c.http.R())
	if isStatus(err, http.StatusNotFound) {
		return jobs.ErrNotFound
	}
	return err
}

func decodeInteraction(endpoint string, body []byte) (*types.JobInteraction, error) {
	var in types.JobInteraction
	if err := json.Unmarshal(unwrapData(body, "interaction"), &in); err != nil {
		return nil, malformed(endpoint, err)
	}
	return &in, nil
}

type errMissing string

func (e errMissing) Error() string {
	return "missing " + string(e)
}
