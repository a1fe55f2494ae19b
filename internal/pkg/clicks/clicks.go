// Package clicks counts outbound interest clicks on venues and events.
package clicks

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/devdesignchile/midnigth/app/models"
	"github.com/devdesignchile/midnigth/internal/pkg/cache"
	"gorm.io/gorm"
)

const (
	TargetVenue = "venue"
	TargetEvent = "event"

	// dedupeWindow is how long repeat clicks from the same visitor on the
	// same target are collapsed into one.
	dedupeWindow = 30 * time.Minute
)

var ErrUnknownTarget = errors.New("unknown click target")

// Tracker increments per-target click counters with a Redis-backed
// visitor dedupe window.
type Tracker struct {
	db *gorm.DB
}

func NewTracker(db *gorm.DB) *Tracker {
	return &Tracker{db: db}
}

// Track records one click for the target. The visitor key is an opaque
// value (IP plus user agent works fine); repeat clicks inside the dedupe
// window return counted=false without touching the database. A Redis
// outage degrades to counting every click rather than dropping them.
func (t *Tracker) Track(target string, targetID uint, visitorKey string) (counted bool, err error) {
	if targetID == 0 {
		return false, ErrUnknownTarget
	}

	var model interface{}
	switch target {
	case TargetVenue:
		model = &models.Venue{}
	case TargetEvent:
		model = &models.Event{}
	default:
		return false, ErrUnknownTarget
	}

	sum := sha256.Sum256([]byte(visitorKey))
	lockKey := fmt.Sprintf("clicks:%s:%d:%s", target, targetID, hex.EncodeToString(sum[:8]))
	if ok, lockErr := cache.SetNX(lockKey, 1, dedupeWindow); lockErr == nil && !ok {
		return false, nil
	}

	now := time.Now()
	res := t.db.Model(model).
		Where("id = ?", targetID).
		Updates(map[string]interface{}{
			"clicks_count":    gorm.Expr("clicks_count + 1"),
			"last_clicked_at": &now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, gorm.ErrRecordNotFound
	}
	return true, nil
}
