package apifootball

import (
	"fmt"
	"sort"
	"strings"

	sonic "github.com/bytedance/sonic"
)

// apiErrors is "errors" in every envelope: an empty array on success, an
// object keyed by error kind otherwise.
type apiErrors map[string]any

func (e *apiErrors) UnmarshalJSON(raw []byte) error {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" || strings.HasPrefix(text, "[") {
		*e = nil
		return nil
	}
	var out map[string]any
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return err
	}
	*e = out
	return nil
}

func (e apiErrors) err() error {
	if len(e) == 0 {
		return nil
	}
	keys := make([]string, 0, len(e))
	for key := range e {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", key, e[key]))
	}
	return fmt.Errorf("provider rejected request: %s", strings.Join(parts, "; "))
}

type squadsEnvelope struct {
	Errors   apiErrors   `json:"errors"`
	Response []teamSquad `json:"response"`
}

func (e squadsEnvelope) apiError() error { return e.Errors.err() }

type teamSquad struct {
	Team struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
	Players []squadPlayer `json:"players"`
}

type squadPlayer struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Age      *int   `json:"age"`
	Number   *int   `json:"number"`
	Position string `json:"position"`
	Photo    string `json:"photo"`
}

type playersEnvelope struct {
	Errors   apiErrors     `json:"errors"`
	Paging   paging        `json:"paging"`
	Response []seasonEntry `json:"response"`
}

func (e playersEnvelope) apiError() error { return e.Errors.err() }

type paging struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

type seasonEntry struct {
	Player struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Age   *int   `json:"age"`
		Photo string `json:"photo"`
	} `json:"player"`
	Statistics []struct {
		Games struct {
			Position string `json:"position"`
		} `json:"games"`
	} `json:"statistics"`
}
