package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Strob0t/NetForge/internal/domain"
	"github.com/Strob0t/NetForge/internal/domain/tenant"
	"github.com/Strob0t/NetForge/internal/port/plugin"
)

// plainComponent exposes no teardown capability.
type plainComponent struct {
	plugin.Base
}

// appComponent is removable with a start hook.
type appComponent struct {
	plugin.Base
	startErr  error
	started   bool
	calls     *[]string
	removeErr error
}

func (a *appComponent) Start() error {
	a.started = true
	return a.startErr
}

func (a *appComponent) RemoveHandlers() error {
	if a.calls != nil {
		*a.calls = append(*a.calls, "handlers:"+a.Name())
	}
	return a.removeErr
}

// testModule is a module tagged with a tenant.
type testModule struct {
	id, tenantID string
}

func (m testModule) ModuleID() string { return m.id }
func (m testModule) TenantID() string { return m.tenantID }

// workerComponent owns modules.
type workerComponent struct {
	plugin.Base
	modules map[string]plugin.Module
	calls   *[]string
}

func newWorker(calls *[]string) *workerComponent {
	return &workerComponent{modules: make(map[string]plugin.Module), calls: calls}
}

func (w *workerComponent) add(id, tenantID string) {
	w.modules[id] = testModule{id: id, tenantID: tenantID}
}

func (w *workerComponent) Modules() map[string]plugin.Module { return w.modules }

func (w *workerComponent) RemoveModule(id string) error {
	if _, ok := w.modules[id]; !ok {
		return errors.New("no such module")
	}
	delete(w.modules, id)
	if w.calls != nil {
		*w.calls = append(*w.calls, "module:"+id)
	}
	return nil
}

func (w *workerComponent) RemoveHandlers() error {
	if w.calls != nil {
		*w.calls = append(*w.calls, "handlers:"+w.Name())
	}
	return nil
}

func TestRegisterStampsNameAndStarts(t *testing.T) {
	g := NewRegistry(nil)
	ctx := context.Background()

	app := &appComponent{}
	if err := g.Register(ctx, "audit", app); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if app.Name() != "audit" {
		t.Errorf("name = %q, want audit", app.Name())
	}
	if !app.started {
		t.Error("start hook not invoked")
	}

	infos := g.Components()
	if len(infos) != 1 || infos[0].Kind != "app" {
		t.Errorf("components = %+v", infos)
	}
}

func TestRegisterDuplicateName(t *testing.T) {
	g := NewRegistry(nil)
	ctx := context.Background()

	if err := g.Register(ctx, "x", &appComponent{}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	err := g.Register(ctx, "x", &appComponent{})
	if !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestRegisterStartFailureLeavesComponentRegistered(t *testing.T) {
	g := NewRegistry(nil)
	ctx := context.Background()

	boom := errors.New("start failed")
	err := g.Register(ctx, "flaky", &appComponent{startErr: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("expected start error, got %v", err)
	}

	// The entry survives the failed start.
	if _, err := g.Component("flaky"); err != nil {
		t.Errorf("component gone after start failure: %v", err)
	}
}

func TestUnregisterPlainRejected(t *testing.T) {
	g := NewRegistry(nil)
	ctx := context.Background()

	if err := g.Register(ctx, "plain", &plainComponent{}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	err := g.Unregister(ctx, "plain")
	if !errors.Is(err, domain.ErrInvalidComponent) {
		t.Fatalf("expected ErrInvalidComponent, got %v", err)
	}
	if _, err := g.Component("plain"); err != nil {
		t.Errorf("plain component removed: %v", err)
	}
}

func TestUnregisterUnknown(t *testing.T) {
	g := NewRegistry(nil)

	err := g.Unregister(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUnregisterWorkerTeardownOrder(t *testing.T) {
	g := NewRegistry(nil)
	ctx := context.Background()

	var calls []string
	w := newWorker(&calls)
	if err := g.Register(ctx, "probe", w); err != nil {
		t.Fatalf("Register: %v", err)
	}
	w.add("m1", "t1")
	w.add("m2", "t2")

	if err := g.Unregister(ctx, "probe"); err != nil {
		t.Fatalf("Unregister: %v", err)
	}

	want := []string{"module:m1", "module:m2", "handlers:probe"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
	}

	if _, err := g.Component("probe"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("entry survived unregister: err=%v", err)
	}
}

func TestUnregisterHandlerFailureKeepsEntry(t *testing.T) {
	g := NewRegistry(nil)
	ctx := context.Background()

	boom := errors.New("teardown failed")
	if err := g.Register(ctx, "audit", &appComponent{removeErr: boom}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := g.Unregister(ctx, "audit"); !errors.Is(err, boom) {
		t.Fatalf("expected teardown error, got %v", err)
	}
	if _, err := g.Component("audit"); err != nil {
		t.Errorf("entry removed despite teardown failure: %v", err)
	}
}

func TestTenantRemovedSweepsOnlyMatchingModules(t *testing.T) {
	g := NewRegistry(nil)
	ctx := context.Background()

	var calls []string
	w := newWorker(&calls)
	if err := g.Register(ctx, "probe", w); err != nil {
		t.Fatalf("Register: %v", err)
	}
	w.add("m1", "t1")
	w.add("m2", "t2")
	w.add("m3", "t1")

	if err := g.TenantRemoved(ctx, "t1"); err != nil {
		t.Fatalf("TenantRemoved: %v", err)
	}

	if len(w.modules) != 1 {
		t.Fatalf("modules left = %d, want 1", len(w.modules))
	}
	if _, ok := w.modules["m2"]; !ok {
		t.Error("module of the surviving tenant was swept")
	}
}

func TestTenantRemovedViaRuntimeCascade(t *testing.T) {
	rt := bootstrapped(t, newMockStore())
	g := NewRegistry(nil)
	rt.AddTenantListener(g)
	ctx := context.Background()

	w := newWorker(nil)
	if err := g.Register(ctx, "probe", w); err != nil {
		t.Fatalf("Register: %v", err)
	}

	id, err := rt.AddTenant(ctx, tenant.CreateRequest{Name: "net", Owner: "foo"})
	if err != nil {
		t.Fatalf("AddTenant: %v", err)
	}
	w.add("m1", id)
	w.add("m2", "other")

	if err := rt.RemoveTenant(ctx, id); err != nil {
		t.Fatalf("RemoveTenant: %v", err)
	}
	if _, ok := w.modules["m1"]; ok {
		t.Error("tenant module survived removal")
	}
	if _, ok := w.modules["m2"]; !ok {
		t.Error("unrelated module swept")
	}
}

func TestLaunchFromCatalog(t *testing.T) {
	plugin.RegisterFactory("test-echo", func(params map[string]string) (plugin.Component, error) {
		return &appComponent{}, nil
	})

	g := NewRegistry(nil)
	if err := g.Launch(context.Background(), "echo-1", "test-echo", nil); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if _, err := g.Component("echo-1"); err != nil {
		t.Errorf("Component: %v", err)
	}
}

func TestLaunchUnknownFactory(t *testing.T) {
	g := NewRegistry(nil)

	err := g.Launch(context.Background(), "x", "no-such-factory", nil)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
