package nav

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Ranrar/CarlsCalendar-sub000/pkg/dom"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/loader"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/router"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/session"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/shell"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/telemetry"
)

// fakeModal records open/close calls for assertions.
type fakeModal struct {
	mu     sync.Mutex
	open   bool
	mode   ModalMode
	opens  int
	closes int
}

func (m *fakeModal) Open(mode ModalMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = true
	m.mode = mode
	m.opens++
}

func (m *fakeModal) Close(bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.open {
		m.closes++
	}
	m.open = false
}

func (m *fakeModal) isOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// resultLog collects completion signals.
type resultLog struct {
	mu      sync.Mutex
	results []Result
}

func (r *resultLog) record(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

func (r *resultLog) all() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Result(nil), r.results...)
}

func (r *resultLog) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = nil
}

func textPage(body string) loader.LoaderFunc {
	return loader.Static(loader.ModuleFunc(func(_ context.Context, mount *dom.Element) error {
		mount.SetText(body)
		return nil
	}))
}

func defaultRoutes() []router.Route {
	return []router.Route{
		{Pattern: "/", Loader: textPage("Home page"), Title: "Home"},
		{Pattern: "/about", Loader: textPage("About page"), Title: "About"},
		{Pattern: "/dashboard", Loader: textPage("Dashboard page"), RequiresAuth: true, Title: "Dashboard"},
		{Pattern: "/admin", Loader: textPage("Admin page"), RequiresRole: session.RoleAdmin, Title: "Admin"},
		{Pattern: "*", Loader: textPage("Not found"), CatchAll: true, Title: "Page not found"},
	}
}

type fixture struct {
	ctrl    *Controller
	doc     *dom.Document
	sh      *shell.Reconciler
	hist    *MemoryHistory
	store   *session.MemoryStore
	modal   *fakeModal
	results *resultLog
}

func newFixture(t *testing.T, routes []router.Route, opts ...ControllerOption) *fixture {
	t.Helper()
	f := &fixture{
		doc:     dom.NewDocument(),
		hist:    NewMemoryHistory("/"),
		store:   session.NewMemoryStore(),
		modal:   &fakeModal{},
		results: &resultLog{},
	}
	f.sh = shell.NewReconciler(f.doc)
	opts = append([]ControllerOption{
		WithAuthModal(f.modal),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	f.ctrl = NewController(router.MustTable(routes), f.store, f.doc, f.sh, f.hist, opts...)
	f.ctrl.OnComplete(f.results.record)
	f.hist.SetPopHandler(func(target string) {
		f.ctrl.HandlePop(context.Background(), target)
	})
	return f
}

// boot performs the initial-load navigation and discards its result.
func (f *fixture) boot(t *testing.T) {
	t.Helper()
	if err := f.ctrl.Replace(context.Background(), f.hist.Current()); err != nil {
		t.Fatalf("boot: %v", err)
	}
	f.results.reset()
}

func (f *fixture) content(t *testing.T) string {
	t.Helper()
	mount := f.sh.Mount()
	if mount == nil {
		t.Fatal("no content mount installed")
	}
	return mount.TextContent()
}

func TestPushRendersPage(t *testing.T) {
	f := newFixture(t, defaultRoutes())
	f.boot(t)

	if err := f.ctrl.Push(context.Background(), "/about"); err != nil {
		t.Fatalf("Push: %v", err)
	}

	if got := f.content(t); got != "About page" {
		t.Errorf("content = %q, want %q", got, "About page")
	}
	if got := f.doc.Title(); got != "About | CarlsCalendar" {
		t.Errorf("title = %q", got)
	}
	if got := f.doc.LiveRegion().Text; got != "Navigated to About" {
		t.Errorf("announcement = %q", got)
	}
	if f.doc.Focused() != f.sh.Mount() {
		t.Error("focus did not move to the content mount")
	}
	if f.hist.Current() != "/about" {
		t.Errorf("history current = %q", f.hist.Current())
	}

	res := f.results.all()
	if len(res) != 1 {
		t.Fatalf("got %d results, want 1", len(res))
	}
	if res[0].Outcome != OutcomeOK || res[0].Path != "/about" || res[0].Origin != OriginPush {
		t.Errorf("result = %+v", res[0])
	}
	if res[0].Redirected {
		t.Error("plain navigation marked redirected")
	}
}

func TestGuardRedirectUsesReplace(t *testing.T) {
	f := newFixture(t, defaultRoutes())
	f.boot(t)
	homeContent := f.content(t)

	if err := f.ctrl.Push(context.Background(), "/dashboard"); err != nil {
		t.Fatalf("Push: %v", err)
	}

	// The disallowed entry was replaced, not stacked.
	if f.hist.Len() != 2 {
		t.Fatalf("history len = %d, want 2", f.hist.Len())
	}
	if f.hist.Current() != "/login" {
		t.Fatalf("history current = %q, want /login", f.hist.Current())
	}

	// "/login" classifies as a modal path, so the redirect opens the
	// overlay and the page underneath stays put.
	if !f.modal.isOpen() || f.modal.mode != ModalLogin {
		t.Error("login modal not opened by the guard redirect")
	}
	if got := f.content(t); got != homeContent {
		t.Errorf("content changed to %q during a modal redirect", got)
	}

	// Back must land on home, never re-entering /dashboard.
	f.hist.Back()
	if f.hist.Current() != "/" {
		t.Errorf("back landed on %q, want /", f.hist.Current())
	}
}

func TestWrongRoleRedirectsHome(t *testing.T) {
	f := newFixture(t, defaultRoutes())
	f.store.SetLoggedIn(session.RoleChild)
	f.boot(t)

	if err := f.ctrl.Push(context.Background(), "/admin"); err != nil {
		t.Fatalf("Push: %v", err)
	}

	if got := f.content(t); got != "Home page" {
		t.Errorf("content = %q, want home", got)
	}
	if f.hist.Current() != "/" {
		t.Errorf("history current = %q, want /", f.hist.Current())
	}

	res := f.results.all()
	if len(res) != 1 {
		t.Fatalf("got %d results, want 1", len(res))
	}
	if !res[0].Redirected || res[0].Path != "/" || res[0].Outcome != OutcomeOK {
		t.Errorf("result = %+v", res[0])
	}
}

func TestModalShortCircuit(t *testing.T) {
	f := newFixture(t, defaultRoutes())
	f.boot(t)

	if err := f.ctrl.Push(context.Background(), "/login"); err != nil {
		t.Fatalf("Push: %v", err)
	}

	if !f.modal.isOpen() || f.modal.mode != ModalLogin {
		t.Fatal("login modal did not open")
	}
	if got := f.content(t); got != "Home page" {
		t.Errorf("modal navigation touched the mount: %q", got)
	}
	if got := f.doc.Title(); got != "Home | CarlsCalendar" {
		t.Errorf("modal navigation changed the title: %q", got)
	}
	if len(f.results.all()) != 0 {
		t.Error("modal navigation fired a completion signal")
	}

	// A real page change dismisses the overlay before rendering.
	if err := f.ctrl.Push(context.Background(), "/about"); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if f.modal.isOpen() {
		t.Error("modal still open after navigating away")
	}
	if got := f.content(t); got != "About page" {
		t.Errorf("content = %q", got)
	}
}

// A deep link straight to a modal path is the first navigation of the
// process: the overlay needs a page underneath, so the pipeline installs
// the skeleton and renders home before opening it.
func TestColdStartAtModalPath(t *testing.T) {
	f := newFixture(t, defaultRoutes())

	if err := f.ctrl.Replace(context.Background(), "/login"); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	if !f.modal.isOpen() || f.modal.mode != ModalLogin {
		t.Fatal("login modal did not open")
	}
	if f.sh.Mount() == nil {
		t.Fatal("no skeleton installed beneath the overlay")
	}
	if got := f.content(t); got != "Home page" {
		t.Errorf("underlay content = %q, want home", got)
	}
	if f.doc.Root().Find("navbar") == nil {
		t.Error("public chrome missing beneath the overlay")
	}
	if got := f.doc.Title(); got != "Home | CarlsCalendar" {
		t.Errorf("title = %q", got)
	}
	if f.hist.Current() != "/login" || f.hist.Len() != 1 {
		t.Errorf("history = %q len %d", f.hist.Current(), f.hist.Len())
	}
	if len(f.results.all()) != 0 {
		t.Error("modal navigation fired a completion signal")
	}
}

// A guarded deep link on a cold start redirects to the login overlay;
// the skeleton and underlay must be installed on that path too.
func TestColdStartAtGuardedDeepLink(t *testing.T) {
	f := newFixture(t, defaultRoutes())

	if err := f.ctrl.Replace(context.Background(), "/dashboard"); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	if !f.modal.isOpen() || f.modal.mode != ModalLogin {
		t.Fatal("login modal did not open")
	}
	if got := f.content(t); got != "Home page" {
		t.Errorf("underlay content = %q, want home", got)
	}
	if f.hist.Current() != "/login" {
		t.Errorf("history current = %q, want /login", f.hist.Current())
	}
}

func TestColdStartAtModalPathGuardedHome(t *testing.T) {
	routes := []router.Route{
		{Pattern: "/", Loader: textPage("Home page"), RequiresAuth: true, Title: "Home"},
		{Pattern: "*", Loader: textPage("Not found"), CatchAll: true, Title: "Page not found"},
	}
	f := newFixture(t, routes)

	if err := f.ctrl.Replace(context.Background(), "/login"); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if got := f.content(t); got != "Not found" {
		t.Errorf("underlay content = %q, want catch-all", got)
	}
	if !f.modal.isOpen() {
		t.Error("login modal did not open")
	}
}

// With a skeleton already installed, a modal navigation never re-renders
// the page underneath.
func TestModalOverWarmShellKeepsPage(t *testing.T) {
	f := newFixture(t, defaultRoutes())
	f.boot(t)
	if err := f.ctrl.Push(context.Background(), "/about"); err != nil {
		t.Fatalf("Push: %v", err)
	}

	if err := f.ctrl.Push(context.Background(), "/login"); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if got := f.content(t); got != "About page" {
		t.Errorf("content = %q, modal replaced the page underneath", got)
	}
	if got := f.doc.Title(); got != "About | CarlsCalendar" {
		t.Errorf("title = %q", got)
	}
}

func TestRegisterModalMode(t *testing.T) {
	f := newFixture(t, defaultRoutes())
	f.boot(t)

	if err := f.ctrl.Push(context.Background(), "/register"); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if f.modal.mode != ModalRegister {
		t.Errorf("modal mode = %q, want register", f.modal.mode)
	}
}

func TestPopDoesNotPush(t *testing.T) {
	f := newFixture(t, defaultRoutes())
	f.boot(t)
	if err := f.ctrl.Push(context.Background(), "/about"); err != nil {
		t.Fatalf("Push: %v", err)
	}
	before := f.hist.Len()

	f.hist.Back()

	if f.hist.Len() != before {
		t.Errorf("pop navigation changed history len: %d -> %d", before, f.hist.Len())
	}
	if got := f.content(t); got != "Home page" {
		t.Errorf("content after back = %q", got)
	}
	res := f.results.all()
	if n := len(res); n < 2 || res[n-1].Origin != OriginPopState {
		t.Errorf("last result = %+v", res[len(res)-1])
	}
}

func TestLoadFailureContained(t *testing.T) {
	routes := append([]router.Route{
		{Pattern: "/broken", Loader: func(context.Context) (loader.Module, error) {
			return nil, errors.New("chunk fetch failed")
		}, Title: "Broken"},
	}, defaultRoutes()...)

	f := newFixture(t, routes)
	f.boot(t)

	if err := f.ctrl.Push(context.Background(), "/broken"); err != nil {
		t.Fatalf("Push: %v", err)
	}

	if got := f.content(t); !strings.Contains(got, "could not be loaded") {
		t.Errorf("mount shows %q, want failure message", got)
	}
	if f.sh.Mount().Find("page").Attr("role") != "alert" {
		t.Error("failure message is not an alert")
	}

	res := f.results.all()
	if len(res) != 1 || res[0].Outcome != OutcomeLoadFailed {
		t.Fatalf("results = %+v", res)
	}

	// The failure is contained: the next navigation works normally.
	f.results.reset()
	if err := f.ctrl.Push(context.Background(), "/about"); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if got := f.content(t); got != "About page" {
		t.Errorf("content after recovery = %q", got)
	}
	if res := f.results.all(); len(res) != 1 || res[0].Outcome != OutcomeOK {
		t.Errorf("results after recovery = %+v", res)
	}
}

func TestRenderPanicContained(t *testing.T) {
	routes := append([]router.Route{
		{Pattern: "/panics", Loader: loader.Static(loader.ModuleFunc(
			func(context.Context, *dom.Element) error { panic("boom") })), Title: "Panics"},
	}, defaultRoutes()...)

	f := newFixture(t, routes)
	f.boot(t)

	if err := f.ctrl.Push(context.Background(), "/panics"); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if got := f.content(t); !strings.Contains(got, "could not be loaded") {
		t.Errorf("mount shows %q, want failure message", got)
	}
}

func TestNewestNavigationWins(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	routes := append([]router.Route{
		{Pattern: "/slow", Title: "Slow", Loader: func(context.Context) (loader.Module, error) {
			close(started)
			<-release
			return loader.ModuleFunc(func(_ context.Context, mount *dom.Element) error {
				mount.SetText("Slow page")
				return nil
			}), nil
		}},
		{Pattern: "/fast", Loader: textPage("Fast page"), Title: "Fast"},
	}, defaultRoutes()...)

	f := newFixture(t, routes)
	f.boot(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = f.ctrl.Push(context.Background(), "/slow")
	}()
	<-started

	// A second intent arrives while the first module is still loading.
	if err := f.ctrl.Push(context.Background(), "/fast"); err != nil {
		t.Fatalf("Push: %v", err)
	}
	close(release)
	<-done

	if got := f.content(t); got != "Fast page" {
		t.Errorf("content = %q, want the newest navigation's page", got)
	}
	if got := f.doc.Title(); got != "Fast | CarlsCalendar" {
		t.Errorf("title = %q", got)
	}

	// Only the winner fired a completion signal.
	res := f.results.all()
	if len(res) != 1 {
		t.Fatalf("got %d results, want 1: %+v", len(res), res)
	}
	if res[0].Path != "/fast" || res[0].Outcome != OutcomeOK {
		t.Errorf("result = %+v", res[0])
	}
}

func TestModeTransitionRebuildsOnce(t *testing.T) {
	f := newFixture(t, defaultRoutes())
	f.boot(t)
	if f.sh.Rebuilds() != 1 {
		t.Fatalf("rebuilds after boot = %d, want 1", f.sh.Rebuilds())
	}

	f.store.SetLoggedIn(session.RoleParent)
	if err := f.ctrl.Push(context.Background(), "/dashboard"); err != nil {
		t.Fatalf("Push: %v", err)
	}

	if f.sh.Rebuilds() != 2 {
		t.Errorf("rebuilds after login = %d, want 2", f.sh.Rebuilds())
	}
	if got := f.content(t); got != "Dashboard page" {
		t.Errorf("content = %q", got)
	}
	if f.doc.Root().Find("sidebar") == nil {
		t.Error("authenticated chrome missing after login transition")
	}
	if f.doc.Root().Find("navbar") != nil {
		t.Error("public chrome survived the login transition")
	}

	// Further same-mode navigations never rebuild.
	if err := f.ctrl.Push(context.Background(), "/about"); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if f.sh.Rebuilds() != 2 {
		t.Errorf("same-mode navigation rebuilt the skeleton: %d", f.sh.Rebuilds())
	}
}

func TestUnknownPathHitsCatchAll(t *testing.T) {
	f := newFixture(t, defaultRoutes())
	f.boot(t)

	if err := f.ctrl.Push(context.Background(), "/no/such/page"); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if got := f.content(t); got != "Not found" {
		t.Errorf("content = %q", got)
	}
	if got := f.doc.Title(); got != "Page not found | CarlsCalendar" {
		t.Errorf("title = %q", got)
	}
}

// A redirect target that fails its own guard is a table misconfiguration.
// The pipeline caps redirects at one hop and settles on the catch-all
// instead of looping.
func TestMisconfiguredGuardLandsOnCatchAll(t *testing.T) {
	routes := []router.Route{
		{Pattern: "/", Loader: textPage("Home page"), RequiresRole: session.RoleParent, Title: "Home"},
		{Pattern: "/a", Loader: textPage("A page"), RequiresRole: session.RoleAdmin, Title: "A"},
		{Pattern: "*", Loader: textPage("Not found"), CatchAll: true, Title: "Page not found"},
	}
	f := newFixture(t, routes)
	f.store.SetLoggedIn(session.RoleChild)

	if err := f.ctrl.Push(context.Background(), "/a"); err != nil {
		t.Fatalf("Push: %v", err)
	}

	if got := f.content(t); got != "Not found" {
		t.Errorf("content = %q, want catch-all page", got)
	}
	if f.hist.Current() != "/" {
		t.Errorf("history current = %q, want /", f.hist.Current())
	}
}

func TestPushRejectsExternalTarget(t *testing.T) {
	f := newFixture(t, defaultRoutes())
	f.boot(t)
	before := f.hist.Len()

	if err := f.ctrl.Push(context.Background(), "https://evil.example/x"); err == nil {
		t.Fatal("expected an error for an absolute URL")
	}
	if f.hist.Len() != before {
		t.Error("rejected target still reached history")
	}
}

func TestMetricsFollowThePipeline(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.NewMetrics(telemetry.WithRegistry(reg))

	routes := append([]router.Route{
		{Pattern: "/broken", Loader: func(context.Context) (loader.Module, error) {
			return nil, errors.New("chunk fetch failed")
		}, Title: "Broken"},
		{Pattern: "/schedules/:id", Loader: textPage("Schedule"), RequiresAuth: true, Title: "Schedule"},
	}, defaultRoutes()...)

	f := newFixture(t, routes, WithMetrics(m))
	f.boot(t)

	ctx := context.Background()
	_ = f.ctrl.Push(ctx, "/about")
	_ = f.ctrl.Push(ctx, "/broken")
	_ = f.ctrl.Push(ctx, "/dashboard")      // logged out: guard redirect
	_ = f.ctrl.Push(ctx, "/schedules/123")  // logged out: redirect through a param route
	_ = f.ctrl.Push(ctx, "/schedules/456")

	if got := testutil.ToFloat64(m.NavigationsTotal.WithLabelValues("/about", "ok")); got != 1 {
		t.Errorf("navigations(/about, ok) = %v", got)
	}
	// Labels carry the matched pattern, not the raw path: both schedule
	// visits land on one series.
	if got := testutil.ToFloat64(m.NavigationsTotal.WithLabelValues("/schedules/:id", "modal")); got != 2 {
		t.Errorf("navigations(/schedules/:id, modal) = %v", got)
	}
	if got := testutil.ToFloat64(m.LoadFailures); got != 1 {
		t.Errorf("load failures = %v", got)
	}
	if got := testutil.ToFloat64(m.GuardRedirects); got != 3 {
		t.Errorf("guard redirects = %v", got)
	}
	// Boot installed the skeleton once.
	if got := testutil.ToFloat64(m.SkeletonRebuilds); got != 1 {
		t.Errorf("skeleton rebuilds = %v", got)
	}
}

func TestRefreshChromeKeepsPage(t *testing.T) {
	f := newFixture(t, defaultRoutes())
	f.boot(t)
	if err := f.ctrl.Push(context.Background(), "/about"); err != nil {
		t.Fatalf("Push: %v", err)
	}
	rebuilds := f.sh.Rebuilds()

	f.ctrl.RefreshChrome()

	if f.sh.Rebuilds() != rebuilds {
		t.Error("RefreshChrome rebuilt the skeleton")
	}
	if got := f.content(t); got != "About page" {
		t.Errorf("content = %q after chrome refresh", got)
	}
}
