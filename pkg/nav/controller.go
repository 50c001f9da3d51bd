package nav

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/Ranrar/CarlsCalendar-sub000/pkg/auth"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/dom"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/i18n"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/loader"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/routepath"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/router"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/session"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/shell"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/telemetry"
)

// Controller drives every navigation of the shell.
//
// All mutable navigation state is owned here: the epoch that serializes
// navigations against the content mount, and the mutex that guards DOM
// commits. Collaborators (session store, auth modal, history) are
// injected, so the whole pipeline runs without a browser.
type Controller struct {
	table   *router.Table
	store   session.Store
	doc     *dom.Document
	shell   *shell.Reconciler
	history History
	modal   AuthModal
	modules *loader.Loader

	modalPaths map[string]ModalMode
	loc        *i18n.Localizer
	logger     *slog.Logger
	metrics    *telemetry.Metrics
	tracer     *telemetry.Tracer
	appName    string

	// epoch is the newest-wins token. Every navigation claims the next
	// value; after each suspension point it revalidates and abandons
	// itself if a newer navigation has started.
	epoch atomic.Uint64

	// mu owns the content mount and post-render bookkeeping. Nothing
	// mutates the mounted DOM without holding it.
	mu sync.Mutex

	lmu       sync.Mutex
	listeners []func(Result)
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithAuthModal sets the auth-overlay collaborator.
func WithAuthModal(m AuthModal) ControllerOption {
	return func(c *Controller) {
		c.modal = m
	}
}

// WithModalPaths overrides the fixed set of overlay paths.
func WithModalPaths(paths map[string]ModalMode) ControllerOption {
	return func(c *Controller) {
		c.modalPaths = paths
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithMetrics enables Prometheus navigation metrics.
func WithMetrics(m *telemetry.Metrics) ControllerOption {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithTracer enables an OpenTelemetry span per navigation.
func WithTracer(t *telemetry.Tracer) ControllerOption {
	return func(c *Controller) {
		c.tracer = t
	}
}

// WithLocalizer sets the localizer for shell strings.
func WithLocalizer(loc *i18n.Localizer) ControllerOption {
	return func(c *Controller) {
		c.loc = loc
	}
}

// WithAppName sets the suffix of document titles ("<route> | <app>").
func WithAppName(name string) ControllerOption {
	return func(c *Controller) {
		c.appName = name
	}
}

// NewController wires the navigation pipeline.
func NewController(
	table *router.Table,
	store session.Store,
	doc *dom.Document,
	sh *shell.Reconciler,
	history History,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		table:      table,
		store:      store,
		doc:        doc,
		shell:      sh,
		history:    history,
		modal:      NopModal{},
		modules:    loader.New(),
		modalPaths: defaultModalPaths(),
		loc:        i18n.Default(),
		logger:     slog.Default(),
		appName:    "CarlsCalendar",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnComplete registers a navigation-completed listener. Listeners fire
// after the shell reconciled, outside the controller's DOM lock, and
// only for navigations that actually ended the pipeline; superseded
// attempts and modal short-circuits fire nothing.
func (c *Controller) OnComplete(fn func(Result)) {
	c.lmu.Lock()
	defer c.lmu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Push pushes a new history entry and navigates to it.
func (c *Controller) Push(ctx context.Context, target string) error {
	res, err := routepath.Normalize(target)
	if err != nil {
		return fmt.Errorf("push %q: %w", target, err)
	}
	c.history.Push(res.String())
	c.navigate(ctx, Intent{Path: res.Path, Query: res.Query, Origin: OriginPush})
	return nil
}

// Replace replaces the current history entry and navigates to it. Guards
// use it for redirects; applications use it for the initial load.
func (c *Controller) Replace(ctx context.Context, target string) error {
	res, err := routepath.Normalize(target)
	if err != nil {
		return fmt.Errorf("replace %q: %w", target, err)
	}
	c.history.Replace(res.String())
	c.navigate(ctx, Intent{Path: res.Path, Query: res.Query, Origin: OriginReplace})
	return nil
}

// HandlePop funnels a browser back/forward event into the pipeline.
// The browser already moved the history entry, so no history mutation
// happens here, ever.
func (c *Controller) HandlePop(ctx context.Context, target string) {
	res, err := routepath.Normalize(target)
	if err != nil {
		c.logger.Warn("nav: unparseable popstate target", "target", target, "err", err)
		return
	}
	c.navigate(ctx, Intent{Path: res.Path, Query: res.Query, Origin: OriginPopState})
}

// RefreshChrome re-renders the navigation chrome in place for cosmetic
// updates (language or theme switch). It never rebuilds the skeleton.
func (c *Controller) RefreshChrome() {
	c.shell.RefreshChrome(c.store.Snapshot())
}

// navigate is the single entry point every intent funnels into. It never
// returns an error: unmatched routes resolve to the catch-all, guard
// failures become redirects, and load/render failures are contained in
// the mount point.
func (c *Controller) navigate(ctx context.Context, intent Intent) {
	token := c.epoch.Inc()
	navID := uuid.NewString()
	start := time.Now()

	logger := c.logger.With(
		"nav_id", navID,
		"target", intent.Path,
		"origin", intent.Origin.String(),
	)

	outcome := OutcomeOK
	metricPath := intent.Path
	var navErr error
	var endSpan func()
	if c.tracer != nil {
		spanCtx, span := c.tracer.StartNavigation(ctx, navID, intent.Path, intent.Origin.String())
		ctx = spanCtx
		endSpan = func() { c.tracer.EndNavigation(span, string(outcome), navErr) }
	}
	defer func() {
		if c.metrics != nil {
			c.metrics.NavigationsTotal.WithLabelValues(metricPath, string(outcome)).Inc()
			c.metrics.NavDuration.WithLabelValues(metricPath).Observe(time.Since(start).Seconds())
		}
		if endSpan != nil {
			endSpan()
		}
	}()

	// Modal classification short-circuits everything: no guard, no
	// match, no module, and above all no touch of the content mount.
	// Except on a cold start: the overlay sits on top of whatever page
	// is visible, so a deep link to a modal path first renders a page
	// underneath before the overlay opens.
	if mode, ok := c.modalPaths[intent.Path]; ok {
		if c.shell.Mode() == shell.ModeNone {
			c.renderUnderlay(ctx, token, logger)
		}
		c.modal.Open(mode)
		outcome = OutcomeModal
		logger.Debug("nav: auth modal opened", "mode", string(mode))
		return
	}

	// Any real page change dismisses a lingering overlay first.
	c.modal.Close(false)

	// One point-in-time session read for the whole pipeline. Guards,
	// render and reconcile all see the same snapshot.
	snap := c.store.Snapshot()

	path, match, redirected, modalMode, redirectedToModal := c.resolve(logger, intent.Path, snap)

	// Metrics label by matched pattern, never by raw path, so a
	// parametrized route cannot blow up the label cardinality.
	metricPath = match.Route.Pattern

	if redirectedToModal {
		// Same cold-start rule as the direct modal path: a guarded deep
		// link on boot redirects to the overlay, which needs a page under it.
		if c.shell.Mode() == shell.ModeNone {
			c.renderUnderlay(ctx, token, logger)
		}
		c.modal.Open(modalMode)
		outcome = OutcomeModal
		return
	}
	route := match.Route

	// Suspension point one: the lazy module import.
	mod, err := c.modules.Load(ctx, route.Pattern, route.Loader)
	if c.epoch.Load() != token {
		outcome = c.superseded(logger)
		return
	}

	// Render into a detached staging node. A stale navigation's render
	// can then never corrupt the live mount, no matter when its page
	// module finishes writing.
	staging := dom.NewElement("div", "page")
	if err == nil {
		err = renderModule(ctx, mod, staging)
	}
	if err != nil {
		navErr = err
		outcome = OutcomeLoadFailed
		logger.Error("nav: page module failed", "route", route.Pattern, "err", err)
		if c.metrics != nil {
			c.metrics.LoadFailures.Inc()
		}
		staging.Clear()
		staging.SetAttr("role", "alert")
		staging.SetText(c.loc.T(i18n.MsgLoadFailed))
	}

	// Suspension point two is behind us; revalidate before committing.
	if c.epoch.Load() != token {
		outcome = c.superseded(logger)
		return
	}

	rebuilt := c.commit(token, snap, path, route, staging)
	if rebuilt < 0 {
		outcome = c.superseded(logger)
		return
	}
	if rebuilt > 0 && c.metrics != nil {
		c.metrics.SkeletonRebuilds.Inc()
	}

	c.fire(Result{
		NavID:      navID,
		Path:       path,
		Title:      route.Title,
		Origin:     intent.Origin,
		Outcome:    outcome,
		Redirected: redirected,
	})

	logger.Info("nav: completed",
		"route", route.Pattern,
		"outcome", string(outcome),
		"redirected", redirected,
		"rebuilt", rebuilt > 0,
		"took", time.Since(start),
	)
}

// renderUnderlay installs the skeleton and renders the home route (or
// the catch-all when home is guarded) without touching history. It runs
// when the process's first navigation targets a modal path: the overlay
// needs a visible page underneath, and dismissing it must not reveal an
// empty root.
func (c *Controller) renderUnderlay(ctx context.Context, token uint64, logger *slog.Logger) {
	snap := c.store.Snapshot()

	m := c.table.Match(auth.HomePath)
	if d := auth.Authorize(m.Route, snap); !d.Allowed {
		m = router.Match{Route: c.table.CatchAll(), Params: map[string]string{}}
	}
	route := m.Route

	mod, err := c.modules.Load(ctx, route.Pattern, route.Loader)
	staging := dom.NewElement("div", "page")
	if err == nil {
		err = renderModule(ctx, mod, staging)
	}
	if err != nil {
		logger.Error("nav: underlay render failed", "route", route.Pattern, "err", err)
		staging.Clear()
		staging.SetAttr("role", "alert")
		staging.SetText(c.loc.T(i18n.MsgLoadFailed))
	}

	c.commit(token, snap, auth.HomePath, route, staging)
}

// resolve matches the path and applies the guard, chasing at most one
// redirect hop. A second guard failure is a route table
// misconfiguration: the pipeline lands on the home route (or the
// catch-all if even home is guarded) instead of recursing.
func (c *Controller) resolve(logger *slog.Logger, path string, snap session.Snapshot) (finalPath string, m router.Match, redirected bool, modalMode ModalMode, toModal bool) {
	m = c.table.Match(path)
	d := auth.Authorize(m.Route, snap)
	if d.Allowed {
		return path, m, false, "", false
	}

	redirected = true
	if c.metrics != nil {
		c.metrics.GuardRedirects.Inc()
	}
	target := d.RedirectTo
	logger.Info("nav: guard redirect", "from", path, "to", target, "reason", d.Reason)

	// Redirects replace, never push: the back button must not re-enter
	// the disallowed route.
	c.history.Replace(target)

	// The redirect target re-enters classification: "/login" is a
	// modal path, so the unauthenticated case opens the overlay.
	if mode, ok := c.modalPaths[target]; ok {
		return target, m, true, mode, true
	}

	m = c.table.Match(target)
	if d2 := auth.Authorize(m.Route, snap); !d2.Allowed {
		logger.Error("nav: redirect target fails its own guard, landing home",
			"target", target, "reason", d2.Reason)
		target = auth.HomePath
		c.history.Replace(target)
		m = c.table.Match(target)
		if d3 := auth.Authorize(m.Route, snap); !d3.Allowed {
			m = router.Match{Route: c.table.CatchAll(), Params: map[string]string{}}
		}
	}
	return target, m, true, "", false
}

// commit swaps the staged content into the live mount and performs the
// post-render bookkeeping. Returns -1 if the navigation was superseded
// at the last gate, 1 if the skeleton was rebuilt, 0 otherwise.
func (c *Controller) commit(token uint64, snap session.Snapshot, path string, route *router.Route, staging *dom.Element) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch.Load() != token {
		return -1
	}

	mount := c.shell.EnsureMount(snap)
	mount.Clear()
	mount.Append(staging)

	// Bookkeeping is best-effort: it runs for failed renders too, so
	// the app never goes dark for the next navigation.
	if route.Title != "" {
		c.doc.SetTitle(route.Title + " | " + c.appName)
		c.doc.Announce(c.loc.Tf(i18n.MsgNavigatedTitle, map[string]any{"Title": route.Title}))
	} else {
		c.doc.Announce(c.loc.T(i18n.MsgPageLoaded))
	}
	c.doc.Focus(mount)

	c.shell.SetActivePath(path)
	if c.shell.Reconcile(snap) {
		return 1
	}
	// Same mode: chrome refreshes in place (active link, login state)
	// without disturbing skeleton node identity.
	c.shell.RefreshChrome(snap)
	return 0
}

func (c *Controller) superseded(logger *slog.Logger) Outcome {
	if c.metrics != nil {
		c.metrics.Superseded.Inc()
	}
	logger.Debug("nav: superseded by newer navigation")
	return OutcomeSuperseded
}

func (c *Controller) fire(res Result) {
	c.lmu.Lock()
	listeners := make([]func(Result), len(c.listeners))
	copy(listeners, c.listeners)
	c.lmu.Unlock()

	for _, fn := range listeners {
		fn(res)
	}
}

// renderModule invokes the page module, converting a panic into an
// error so a broken page cannot take the pipeline down with it.
func renderModule(ctx context.Context, mod loader.Module, mount *dom.Element) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page module panicked: %v", r)
		}
	}()
	return mod.Render(ctx, mount)
}
