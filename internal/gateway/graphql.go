package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const graphqlEndpoint = "/graphql"

var ErrGraphQL = errors.New("graphql query failed")

// Tag is one name/value pair attached to an indexed transaction.
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// TransactionNode is one transaction returned by the index.
type TransactionNode struct {
	ID   string `json:"id"`
	Tags []Tag  `json:"tags"`
}

// TransactionEdge pairs a transaction with its pagination cursor.
type TransactionEdge struct {
	Cursor string          `json:"cursor"`
	Node   TransactionNode `json:"node"`
}

// TransactionPage is one page of index results.
type TransactionPage struct {
	Edges       []TransactionEdge
	HasNextPage bool
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data struct {
		Transactions struct {
			PageInfo struct {
				HasNextPage bool `json:"hasNextPage"`
			} `json:"pageInfo"`
			Edges []TransactionEdge `json:"edges"`
		} `json:"transactions"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// QueryTransactions runs one page of a transactions query against the
// gateway's GraphQL index.
func (c *Client) QueryTransactions(ctx context.Context, query string, vars map[string]any) (*TransactionPage, error) {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: vars})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+graphqlEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{StatusCode: resp.StatusCode, Code: readErrorCode(resp.Body)}
	}

	var decoded graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding graphql response: %w", err)
	}
	if len(decoded.Errors) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrGraphQL, decoded.Errors[0].Message)
	}

	return &TransactionPage{
		Edges:       decoded.Data.Transactions.Edges,
		HasNextPage: decoded.Data.Transactions.PageInfo.HasNextPage,
	}, nil
}

// QueryAllTransactions pages through the whole result set of a query,
// threading the last cursor forward as the "after" variable until the
// gateway reports no next page.
func (c *Client) QueryAllTransactions(ctx context.Context, query string, vars map[string]any) ([]TransactionEdge, error) {
	pageVars := make(map[string]any, len(vars)+1)
	for k, v := range vars {
		pageVars[k] = v
	}

	var edges []TransactionEdge
	for {
		page, err := c.QueryTransactions(ctx, query, pageVars)
		if err != nil {
			return nil, err
		}
		edges = append(edges, page.Edges...)
		if !page.HasNextPage || len(page.Edges) == 0 {
			return edges, nil
		}
		pageVars["after"] = page.Edges[len(page.Edges)-1].Cursor
	}
}
