package improver

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/danielpatrickdp/scriptloop/internal/feedback"
	"github.com/danielpatrickdp/scriptloop/internal/llm"
	"github.com/danielpatrickdp/scriptloop/internal/script"
	"github.com/danielpatrickdp/scriptloop/internal/store"
)

// #region version-error
// VersionFormatError reports a script version string that cannot be bumped
// because it does not parse as a number. It is the only error Improve returns.
type VersionFormatError struct {
	Version string
	Err     error
}

func (e *VersionFormatError) Error() string {
	return fmt.Sprintf("script version %q is not numeric: %v", e.Version, e.Err)
}

func (e *VersionFormatError) Unwrap() error { return e.Err }

// #endregion version-error

// #region improver
// Improver produces the next script version from a feedback directive. It
// prefers a model-assisted rewrite, falls back to deterministic rule edits,
// and degrades to a version bump alone when the directive has nothing
// actionable. The input script is never mutated.
type Improver struct {
	client llm.Client   // nil disables model rewrite
	store  *store.Store // nil disables persistence
	log    *logrus.Logger

	// Observer, when set, is told which strategy produced each version.
	Observer StrategyObserver
}

// StrategyObserver receives the strategy behind each produced version.
type StrategyObserver interface {
	ObserveStrategy(strategy string)
}

// New wires an improver. Both client and store may be nil.
func New(client llm.Client, st *store.Store, log *logrus.Logger) *Improver {
	return &Improver{client: client, store: st, log: log}
}

// Improve returns a new script whose version is bumped by 0.1 and whose
// sections reflect the directive. Rewrite and persistence failures degrade
// and are logged; only a malformed version propagates as an error.
func (im *Improver) Improve(ctx context.Context, current *script.Script, d feedback.Directive) (*script.Script, error) {
	next, err := bumpVersion(current.Version)
	if err != nil {
		return nil, err
	}

	improved := current.Clone()
	improved.Version = next
	im.log.WithFields(logrus.Fields{
		"script_id": current.ID,
		"from":      current.Version,
		"to":        next,
	}).Info("improving script")

	strategy := "no_op"
	if im.client != nil && d.GeneralFeedback != "" {
		if err := im.modelRewrite(ctx, current, improved, d); err != nil {
			im.log.WithError(err).Warn("model rewrite failed, applying rule edits")
		} else {
			strategy = "model_rewrite"
		}
	}
	if strategy != "model_rewrite" {
		if im.applyRuleEdits(improved, d) {
			strategy = "rule_edit"
		}
	}

	im.persist(improved, strategy, d)
	if im.Observer != nil {
		im.Observer.ObserveStrategy(strategy)
	}
	return improved, nil
}

// #endregion improver

// #region version-bump
// bumpVersion adds 0.1 to a numeric version string, rendered to one decimal.
func bumpVersion(version string) (string, error) {
	v, err := strconv.ParseFloat(version, 64)
	if err != nil {
		return "", &VersionFormatError{Version: version, Err: err}
	}
	return fmt.Sprintf("%.1f", v+0.1), nil
}

// #endregion version-bump

// #region persist
// persist snapshots the new version and records provenance. Failures here
// must not lose the in-memory improvement, so they are logged, not returned.
func (im *Improver) persist(sc *script.Script, strategy string, d feedback.Directive) {
	if im.store == nil {
		return
	}
	if err := im.store.SaveVersion(sc); err != nil {
		im.log.WithError(err).Error("save script version")
	}
	entry := store.NewImprovementEntry(sc.ID, sc.Version, strategy, d.GeneralFeedback, d.Metrics)
	if err := im.store.LogImprovement(entry); err != nil {
		im.log.WithError(err).Error("log improvement provenance")
	}
}

// #endregion persist
