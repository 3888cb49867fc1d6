// profile.go - Profile/resume singleton behind the admin editor
package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const profileID = "profile"

// Profile wraps the single profile record. Unlike the content collections it
// never seeds on read: GET serves the curated default until the first save.
type Profile struct {
	store Store
}

func newProfile(store Store) *Profile {
	return &Profile{store: store}
}

func (p *Profile) Get() (Record, error) {
	rec, err := p.store.Get(profileID)
	if errors.Is(err, errNotFound) {
		out := defaultProfile.Clone()
		out["updatedAt"] = time.Now().UTC().Format(time.RFC3339)
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Save merges only the supplied fields onto the stored profile, creating it
// from the defaults on first save.
func (p *Profile) Save(fields Record) (Record, error) {
	patch := fields.Clone()
	delete(patch, "id")
	patch["updatedAt"] = time.Now().UTC().Format(time.RFC3339)

	rec, err := p.store.Patch(profileID, patch)
	if errors.Is(err, errNotFound) {
		rec = defaultProfile.Clone()
		rec.Merge(patch)
		if err := p.store.InsertMany([]Record{rec}); err != nil {
			return nil, err
		}
		return rec, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (p *Profile) getHandler(c *gin.Context) {
	rec, err := p.Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (p *Profile) putHandler(c *gin.Context) {
	var fields Record
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	rec, err := p.Save(fields)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, rec)
}
