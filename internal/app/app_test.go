package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flightdrop/internal/dispatcher"
	"github.com/vk/flightdrop/internal/host"
	"github.com/vk/flightdrop/internal/module"
	"github.com/vk/flightdrop/internal/registry"
	"github.com/vk/flightdrop/internal/soloader"
	"github.com/vk/flightdrop/internal/testutil"
	"github.com/vk/flightdrop/modules/fbsdk"
)

var expectedModuleOrder = []string{
	"deviceinfo",
	"core",
	"prompt",
	"fbsdk",
	"socialshare",
	"sendintent",
	"firebase",
	"firebaseanalytics",
	"remoteconfig",
	"crashlytics",
	"onesignal",
	"vectoricons",
	"lineargradient",
}

func names(mods []module.Module) []string {
	out := make([]string, len(mods))
	for i, m := range mods {
		out[i] = m.Name()
	}
	return out
}

func TestOnCreate_ReachesRunning(t *testing.T) {
	t.Parallel()

	a, logs := setupAppTest(t, Config{}, nil)
	assert.Equal(t, StateUninitialized, a.State())

	_, err := a.Descriptor()
	require.ErrorIs(t, err, ErrNotRunning)

	require.NoError(t, a.OnCreate(context.Background()))
	assert.Equal(t, StateRunning, a.State())

	desc, err := a.Descriptor()
	require.NoError(t, err)
	assert.Equal(t, host.EntryPoint, desc.EntryPoint())
	assert.False(t, desc.DeveloperModeEnabled())
	testutil.AssertLogged(t, logs, "Application running.")
}

func TestOnCreate_SecondCallIsNoop(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	boot := BootstrapFunc(func(context.Context) error {
		calls.Add(1)
		return nil
	})
	a, _ := setupAppTest(t, Config{}, boot)

	require.NoError(t, a.OnCreate(context.Background()))
	first, err := a.Descriptor()
	require.NoError(t, err)

	require.NoError(t, a.OnCreate(context.Background()))
	second, err := a.Descriptor()
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDescriptor_CoreModules(t *testing.T) {
	t.Parallel()

	a, _ := setupAppTest(t, Config{}, nil)
	require.NoError(t, a.OnCreate(context.Background()))
	desc, err := a.Descriptor()
	require.NoError(t, err)

	mods, err := desc.Modules()
	require.NoError(t, err)
	require.Len(t, mods, len(expectedModuleOrder))
	assert.Equal(t, expectedModuleOrder, names(mods))

	seen := make(map[string]bool)
	for _, m := range mods {
		assert.False(t, seen[m.Name()], "duplicate module %q", m.Name())
		seen[m.Name()] = true
	}

	again, err := desc.Modules()
	require.NoError(t, err)
	assert.Equal(t, names(mods), names(again))
	for i := range mods {
		assert.Same(t, mods[i], again[i])
	}
}

func TestDescriptor_ExactlyOneModuleHoldsDispatcher(t *testing.T) {
	t.Parallel()

	a, _ := setupAppTest(t, Config{}, nil)
	require.NoError(t, a.OnCreate(context.Background()))
	desc, err := a.Descriptor()
	require.NoError(t, err)
	mods, err := desc.Modules()
	require.NoError(t, err)

	var holders []string
	for _, m := range mods {
		if du, ok := m.(module.DispatcherUser); ok {
			holders = append(holders, m.Name())
			assert.Same(t, a.Dispatcher(), du.Dispatcher())
		}
	}
	assert.Equal(t, []string{fbsdk.Name}, holders)
}

func TestDispatcher_ConcurrentAccessReturnsSameInstance(t *testing.T) {
	t.Parallel()

	a, _ := setupAppTest(t, Config{}, nil)

	const callers = 32
	got := make([]*dispatcher.Dispatcher, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = a.Dispatcher()
		}(i)
	}
	wg.Wait()

	require.NoError(t, a.OnCreate(context.Background()))
	for _, d := range got {
		assert.Same(t, a.Dispatcher(), d)
	}
}

func TestOnCreate_BootstrapFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("libreactnativejni.so: cannot open shared object file")
	var calls atomic.Int32
	boot := BootstrapFunc(func(context.Context) error {
		calls.Add(1)
		return boom
	})
	a, logs := setupAppTest(t, Config{}, boot)

	err := a.OnCreate(context.Background())
	require.ErrorIs(t, err, ErrBootstrap)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, StateUninitialized, a.State())

	_, descErr := a.Descriptor()
	require.ErrorIs(t, descErr, ErrNotRunning)

	again := a.OnCreate(context.Background())
	assert.Equal(t, err, again)
	assert.Equal(t, int32(1), calls.Load())
	testutil.AssertLogged(t, logs, "Application failed to start.")
}

func TestOnCreate_MissingNativeLibrary(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteFiles(t, map[string]string{
		"host.hcl": `
native {
  search_paths = ["` + filepath.ToSlash(t.TempDir()) + `"]
  libraries    = ["reactnativejni"]
}
`,
	})
	a, _ := setupAppTest(t, Config{ManifestPaths: []string{dir}}, nil)

	err := a.OnCreate(context.Background())
	require.ErrorIs(t, err, ErrBootstrap)
	require.ErrorIs(t, err, soloader.ErrLibraryNotFound)
	assert.Equal(t, StateUninitialized, a.State())
}

func TestOnCreate_NativeLibrariesResolved(t *testing.T) {
	t.Parallel()

	libs := testutil.WriteFiles(t, map[string]string{
		"arm64-v8a/libreactnativejni.so": "",
		"arm64-v8a/libfbjni.so":          "",
	})
	dir := testutil.WriteFiles(t, map[string]string{
		"host.hcl": `
native {
  search_paths = ["` + filepath.ToSlash(libs) + `"]
  libraries    = ["reactnativejni", "fbjni"]
}
`,
	})
	a, logs := setupAppTest(t, Config{ManifestPaths: []string{dir}}, nil)

	require.NoError(t, a.OnCreate(context.Background()))
	testutil.AssertLogged(t, logs, "Native libraries loaded.", "count=2")
}

func TestOnCreate_ManifestErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{name: "syntax", src: `module "fbsdk" {`, wantErr: "failed to load manifest"},
		{name: "unknown module", src: `module "pushwoosh" {}`, wantErr: "module 'pushwoosh' is configured but not compiled into this host"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dir := testutil.WriteFiles(t, map[string]string{"host.hcl": tc.src})
			a, _ := setupAppTest(t, Config{ManifestPaths: []string{dir}}, nil)

			err := a.OnCreate(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
			assert.Equal(t, StateUninitialized, a.State())
		})
	}
}

func TestModules_ConstructionFailurePropagates(t *testing.T) {
	t.Parallel()

	rec := testutil.NewRecorder()
	boom := errors.New("sdk refused app id")
	a, _ := setupAppTest(t, Config{}, nil,
		testutil.RecordingEntry(rec, "first", nil, nil),
		testutil.RecordingEntry(rec, "broken", boom, nil),
		testutil.RecordingEntry(rec, "never", nil, nil),
	)
	require.NoError(t, a.OnCreate(context.Background()))

	desc, err := a.Descriptor()
	require.NoError(t, err)
	_, err = desc.Modules()
	require.ErrorIs(t, err, registry.ErrConstruction)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"build:first", "build:broken"}, rec.Events())
}

func TestModules_OnlyBuiltWhenQueried(t *testing.T) {
	t.Parallel()

	rec := testutil.NewRecorder()
	a, _ := setupAppTest(t, Config{}, nil, testutil.RecordingEntry(rec, "lazy", nil, nil))
	require.NoError(t, a.OnCreate(context.Background()))
	assert.Zero(t, rec.Builds("lazy"))

	desc, err := a.Descriptor()
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := desc.Modules()
		require.NoError(t, err)
	}
	assert.Equal(t, 1, rec.Builds("lazy"))
}

func TestOnCreate_DeveloperSupportGating(t *testing.T) {
	t.Parallel()

	release, releaseLogs := setupAppTest(t, Config{}, nil)
	require.NoError(t, release.OnCreate(context.Background()))
	release.Dispatcher().OnActivityResult(context.Background(), 42, 0, nil)
	testutil.AssertNotLogged(t, releaseLogs, "Developer support enabled.", "Activity result routed.")

	debug, debugLogs := setupAppTest(t, Config{DeveloperMode: true}, nil)
	require.NoError(t, debug.OnCreate(context.Background()))
	desc, err := debug.Descriptor()
	require.NoError(t, err)
	assert.True(t, desc.DeveloperModeEnabled())

	debug.Dispatcher().OnActivityResult(context.Background(), 42, 0, nil)
	testutil.AssertLogged(t, debugLogs, "Developer support enabled.", "Activity result routed.", "request_code=42")
}

func TestOnCreate_InspectorFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	a, logs := setupAppTest(t, Config{DeveloperMode: true, InspectorURL: "http://127.0.0.1:1/devtools"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, a.OnCreate(ctx))
	assert.Equal(t, StateRunning, a.State())
	testutil.AssertLogged(t, logs, "Inspector unavailable, continuing without it.")
}

func TestClose_IsRepeatable(t *testing.T) {
	t.Parallel()

	a, _ := setupAppTest(t, Config{DeveloperMode: true}, nil)
	require.NoError(t, a.OnCreate(context.Background()))
	require.NoError(t, a.Close(context.Background()))
	require.NoError(t, a.Close(context.Background()))
}

func TestModules_StartAndStopCoreModules(t *testing.T) {
	t.Parallel()

	a, _ := setupAppTest(t, Config{}, nil)
	require.NoError(t, a.OnCreate(context.Background()))
	desc, err := a.Descriptor()
	require.NoError(t, err)
	mods, err := desc.Modules()
	require.NoError(t, err)

	stop, err := module.StartAll(context.Background(), mods)
	require.NoError(t, err)
	assert.True(t, a.Dispatcher().OnActivityResult(context.Background(), fbsdk.RequestCodeLogin, -1, nil))

	require.NoError(t, stop(context.Background()))
	assert.False(t, a.Dispatcher().OnActivityResult(context.Background(), fbsdk.RequestCodeLogin, -1, nil))
}

func TestNewApp_DuplicateModulePanics(t *testing.T) {
	t.Parallel()

	rec := testutil.NewRecorder()
	assert.Panics(t, func() {
		NewApp(&testutil.SafeBuffer{}, &Config{}, nil,
			testutil.RecordingEntry(rec, "twice", nil, nil),
			testutil.RecordingEntry(rec, "twice", nil, nil),
		)
	})
}

func TestState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "State(7)", State(7).String())
}

func TestModules_RejectsOptionsModuleDoesNotAccept(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{name: "module without options", src: `module "prompt" { no_such_option = 1 }`, wantErr: "prompt"},
		{name: "module with options", src: `module "crashlytics" { no_such_option = 1 }`, wantErr: "crashlytics"},
		{name: "nested block", src: `module "lineargradient" {
  colors {}
}`, wantErr: "lineargradient"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dir := testutil.WriteFiles(t, map[string]string{"host.hcl": tc.src})
			a, _ := setupAppTest(t, Config{ManifestPaths: []string{dir}}, nil)
			require.NoError(t, a.OnCreate(context.Background()))

			desc, err := a.Descriptor()
			require.NoError(t, err)

			mods, err := desc.Modules()
			require.ErrorIs(t, err, registry.ErrConstruction)
			assert.Contains(t, err.Error(), tc.wantErr)
			assert.Nil(t, mods)
		})
	}
}

func TestModules_AcceptsEmptyOptionsBlock(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteFiles(t, map[string]string{"host.hcl": `
module "prompt" {}

module "onesignal" {
  app_id = "96783218-df0f-496e-bbaa-92ff825ee01f"
}
`})
	a, _ := setupAppTest(t, Config{ManifestPaths: []string{dir}}, nil)
	require.NoError(t, a.OnCreate(context.Background()))

	desc, err := a.Descriptor()
	require.NoError(t, err)

	mods, err := desc.Modules()
	require.NoError(t, err)
	assert.Equal(t, expectedModuleOrder, names(mods))
}
