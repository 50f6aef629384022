package models

import "time"

// Character is a pilot who logged in through SSO. The id is the EVE
// character id.
type Character struct {
	CharacterID        int64     `json:"character_id"`
	OwnerHash          string    `json:"owner_hash"`
	Name               string    `json:"name"`
	AccessToken        string    `json:"access_token"`
	AccessTokenExpires time.Time `json:"access_token_expires"`
	RefreshToken       string    `json:"refresh_token"`
	LatestSeen         time.Time `json:"latest_seen"`
}

// TokenExpiresWithin reports whether the access token is missing or runs out
// before now+d.
func (c *Character) TokenExpiresWithin(now time.Time, d time.Duration) bool {
	if c.AccessToken == "" {
		return true
	}
	return !c.AccessTokenExpires.After(now.Add(d))
}

// TokenSet is what SSO returns for a code exchange or a refresh.
type TokenSet struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// ApplyTokens stores a fresh token set. An empty refresh token keeps the
// previous one.
func (c *Character) ApplyTokens(tokens *TokenSet, now time.Time) {
	c.AccessToken = tokens.AccessToken
	c.AccessTokenExpires = now.Add(time.Duration(tokens.ExpiresIn) * time.Second)
	if tokens.RefreshToken != "" {
		c.RefreshToken = tokens.RefreshToken
	}
}

// Identity is the verified owner of an access token.
type Identity struct {
	CharacterID        int64  `json:"CharacterID"`
	CharacterName      string `json:"CharacterName"`
	CharacterOwnerHash string `json:"CharacterOwnerHash"`
	Scopes             string `json:"Scopes"`
	ExpiresOn          string `json:"ExpiresOn"`
}
