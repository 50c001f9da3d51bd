package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Ranrar/CarlsCalendar-sub000/pkg/dom"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/i18n"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/nav"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/router"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/session"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/shell"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/telemetry"
)

// Shell is a fully wired CarlsCalendar navigation shell over the
// headless DOM. The dev CLI and the end-to-end tests both run one.
type Shell struct {
	Doc        *dom.Document
	Store      session.Store
	History    *nav.MemoryHistory
	Modal      *AuthModal
	Reconciler *shell.Reconciler
	Controller *nav.Controller
}

// Option configures the shell assembly.
type Option func(*config)

type config struct {
	store   session.Store
	logger  *slog.Logger
	langs   []string
	metrics *telemetry.Metrics
	tracer  *telemetry.Tracer
	initial string
}

// WithStore replaces the default in-memory session store.
func WithStore(store session.Store) Option {
	return func(c *config) { c.store = store }
}

// WithLogger sets the structured logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithLanguages sets the preferred shell languages, most preferred
// first (e.g. "da", "en").
func WithLanguages(langs ...string) Option {
	return func(c *config) { c.langs = langs }
}

// WithMetrics enables Prometheus navigation metrics.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// WithTracer enables OpenTelemetry navigation spans.
func WithTracer(t *telemetry.Tracer) Option {
	return func(c *config) { c.tracer = t }
}

// WithInitialPath sets the history's starting entry (default "/").
func WithInitialPath(path string) Option {
	return func(c *config) { c.initial = path }
}

// NewShell assembles the shell: route table, reconciler with the
// CarlsCalendar chrome, auth modal, history, and controller, with the
// popstate listener funneled into the controller.
func NewShell(opts ...Option) (*Shell, error) {
	cfg := config{
		store:   session.NewMemoryStore(),
		logger:  slog.Default(),
		initial: "/",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	table, err := router.NewTable(Routes())
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	doc := dom.NewDocument()
	history := nav.NewMemoryHistory(cfg.initial)
	modal := NewAuthModal(doc, history)

	rec := shell.NewReconciler(doc,
		shell.WithLogger(cfg.logger),
		shell.WithChrome(shell.SlotNavBar, NavBar()),
		shell.WithChrome(shell.SlotFooter, Footer()),
		shell.WithChrome(shell.SlotTopBar, TopBar()),
		shell.WithChrome(shell.SlotSideBar, SideBar()),
		shell.WithChrome(shell.SlotBottomNav, BottomNav()),
	)

	ctrlOpts := []nav.ControllerOption{
		nav.WithAuthModal(modal),
		nav.WithLogger(cfg.logger),
		nav.WithAppName("CarlsCalendar"),
	}
	if len(cfg.langs) > 0 {
		ctrlOpts = append(ctrlOpts, nav.WithLocalizer(i18n.NewLocalizer(i18n.NewBundle(), cfg.langs...)))
	}
	if cfg.metrics != nil {
		ctrlOpts = append(ctrlOpts, nav.WithMetrics(cfg.metrics))
	}
	if cfg.tracer != nil {
		ctrlOpts = append(ctrlOpts, nav.WithTracer(cfg.tracer))
	}

	ctrl := nav.NewController(table, cfg.store, doc, rec, history, ctrlOpts...)
	history.SetPopHandler(func(target string) {
		ctrl.HandlePop(context.Background(), target)
	})

	return &Shell{
		Doc:        doc,
		Store:      cfg.store,
		History:    history,
		Modal:      modal,
		Reconciler: rec,
		Controller: ctrl,
	}, nil
}

// Boot performs the initial navigation to the history's current entry,
// installing the skeleton on the way. Uses replace semantics so boot
// never grows the history stack.
func (s *Shell) Boot(ctx context.Context) error {
	return s.Controller.Replace(ctx, s.History.Current())
}
