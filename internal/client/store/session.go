package store

import (
	"context"
	"encoding/json"
	"net/http"
)

// SessionKey is where the session cookies are kept between runs.
const SessionKey = "session-cookies"

type savedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SaveSession writes the jar's cookies for the server to p. An empty jar
// deletes the saved session.
func (a *HTTPAPI) SaveSession(ctx context.Context, p Persister) error {
	cookies := a.Cookies()
	if len(cookies) == 0 {
		return p.Delete(ctx, SessionKey)
	}
	saved := make([]savedCookie, 0, len(cookies))
	for _, c := range cookies {
		saved = append(saved, savedCookie{Name: c.Name, Value: c.Value})
	}
	raw, err := json.Marshal(saved)
	if err != nil {
		return err
	}
	return p.Set(ctx, SessionKey, raw)
}

// LoadSession puts cookies saved by SaveSession back into the jar. The jar
// only hands back name and value, so the path is rebuilt as "/". An
// unreadable entry is dropped.
func (a *HTTPAPI) LoadSession(ctx context.Context, p Persister) error {
	raw, err := p.Get(ctx, SessionKey)
	if err != nil || raw == nil {
		return err
	}
	var saved []savedCookie
	if err := json.Unmarshal(raw, &saved); err != nil {
		return p.Delete(ctx, SessionKey)
	}
	cookies := make([]*http.Cookie, 0, len(saved))
	for _, c := range saved {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/", HttpOnly: true})
	}
	a.SetCookies(cookies)
	return nil
}
