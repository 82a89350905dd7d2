package notify

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/LukasDorner/StreamGate/internal/pkg/cache"
)

// DefaultAlertWindow is how long one operational condition stays silenced
// after its first alert. Configuration problems tend to fail every delivery
// until an operator acts; one page per window is enough.
const DefaultAlertWindow = 15 * time.Minute

type setNXFunc func(key string, value interface{}, expiration time.Duration) (bool, error)

type emitFunc func(msg string, err error)

// NewThrottledAlert returns an alert hook that raises at most one alert per
// distinct condition per window. The window lives in Redis so all instances
// share it; repeats inside the window are logged at debug level only.
func NewThrottledAlert(window time.Duration) func(msg string, err error) {
	return newThrottledAlert(cache.SetNX, window, func(msg string, err error) {
		log.Errorf("OPS ALERT: %s: %v", msg, err)
	})
}

func newThrottledAlert(setNX setNXFunc, window time.Duration, emit emitFunc) func(msg string, err error) {
	if window <= 0 {
		window = DefaultAlertWindow
	}
	return func(msg string, err error) {
		first, setErr := setNX(alertKey(msg, err), time.Now().UTC().Format(time.RFC3339), window)
		if setErr != nil {
			// Throttling is best-effort: an unreachable Redis must never
			// swallow the alert itself.
			log.Warnf("alert throttle unavailable: %v", setErr)
			emit(msg, err)
			return
		}
		if !first {
			log.Debugf("ops alert suppressed, window active: %s: %v", msg, err)
			return
		}
		emit(msg, err)
	}
}

// alertKey folds the message and the error text into a stable key, so the
// same misconfiguration (same scope, same customer) shares one window while
// distinct conditions alert independently.
func alertKey(msg string, err error) string {
	sum := sha256.Sum256([]byte(msg + "|" + err.Error()))
	return "ops:alerts:" + hex.EncodeToString(sum[:8])
}
