// Package hub holds the Hugging Face Hub collaborators: the xet-read-token
// exchange and a download helper tying the token, the CAS client, and the
// reconstruction engine together.
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/agenthands/xetcas/pkg/core"
)

// DefaultEndpoint is the public Hub API endpoint.
const DefaultEndpoint = "https://huggingface.co"

// Token is the result of a xet-read-token exchange: short-lived CAS
// credentials scoped to one repository revision.
type Token struct {
	AccessToken string `json:"accessToken"`
	CasURL      string `json:"casUrl"`
	Exp         int64  `json:"exp"`
}

// ReadToken exchanges a Hub token for CAS read credentials.
//
//	GET {endpoint}/api/{repoType}s/{repoID}/xet-read-token/{revision}
func ReadToken(ctx context.Context, client *http.Client, endpoint, repoType, repoID, revision, hubToken string) (*Token, error) {
	if repoType == "" || repoID == "" || revision == "" {
		return nil, fmt.Errorf("%w: repo type, id, and revision are required", core.ErrInvalidInput)
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}

	url := fmt.Sprintf("%s/api/%ss/%s/xet-read-token/%s", endpoint, repoType, repoID, revision)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
	}
	if hubToken != "" {
		req.Header.Set("Authorization", "Bearer "+hubToken)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &core.TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &core.TransportError{Status: resp.StatusCode, URL: url}
	}

	var tok Token
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, fmt.Errorf("%w: bad token response: %v", core.ErrCorrupt, err)
	}
	if tok.AccessToken == "" || tok.CasURL == "" {
		return nil, fmt.Errorf("%w: token response missing fields", core.ErrCorrupt)
	}
	return &tok, nil
}
