package neurotoy

import (
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowState owns the GLFW window and its current pixel size.
type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string
}

// Window returns the drawable size as the value type the transform works on.
func (s *WindowState) Window() Window {
	return Window{Width: float32(s.WindowWidth), Height: float32(s.WindowHeight)}
}

// GpuState holds the wgpu objects shared by every GPU-facing system.
type GpuState struct {
	surface       *wgpu.Surface
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceConfig *wgpu.SurfaceConfiguration
}

// WindowModule creates the GLFW window and brings up the wgpu device,
// surface and swapchain. Bring-up failures panic; there is nothing to
// recover to without a device.
type WindowModule struct {
	Width  int
	Height int
	Title  string
}

func (mod WindowModule) Install(app *App) {
	width, height, title := mod.Width, mod.Height, mod.Title
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	if title == "" {
		title = "Neurotoy"
	}

	windowState := createWindowState(width, height, title)
	gpuState := createGpuState(windowState)
	app.AddResources(windowState, gpuState)
	app.Logger().Infof("Created window (%dx%d) '%s'", width, height, title)

	app.UseSystem(
		System(windowEventsSystem).InStage(PreUpdate),
	)
}

func createWindowState(windowWidth int, windowHeight int, windowTitle string) *WindowState {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		panic(err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // Important: tell GLFW we don't want OpenGL
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		panic(err)
	}

	return &WindowState{
		windowGlfw:   win,
		WindowWidth:  windowWidth,
		WindowHeight: windowHeight,
		windowTitle:  windowTitle,
	}
}

func createGpuState(s *WindowState) *GpuState {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()
	// wraps GLFW window into a wgpu surface.
	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(s.windowGlfw))
	// finds a suitable GPU (discrete GPU preferred)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		panic(err)
	}
	// allocates the device and command queue
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:            "Main Device",
		RequiredFeatures: nil,
		RequiredLimits:   nil,
	})
	if err != nil {
		panic(err)
	}
	queue := device.GetQueue()

	caps := surface.GetCapabilities(adapter)
	// defines how the swapchain behaves (size, format, vsync)
	surfaceConfig := wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(s.WindowWidth),
		Height:      uint32(s.WindowHeight),
		PresentMode: wgpu.PresentModeFifo, // vsync
		AlphaMode:   caps.AlphaModes[0],
	}

	surface.Configure(adapter, device, &surfaceConfig)

	return &GpuState{
		surface:       surface,
		adapter:       adapter,
		device:        device,
		queue:         queue,
		surfaceConfig: &surfaceConfig,
	}
}

// windowEventsSystem pumps GLFW, tracks resizes and requests exit when the
// window closes. A resize reconfigures the swapchain; the window uniform is
// reuploaded every frame by the render module, so nothing else to do here.
func windowEventsSystem(app *App, state *WindowState, gpuState *GpuState) {
	glfw.PollEvents()

	if state.windowGlfw.ShouldClose() || state.windowGlfw.GetKey(glfw.KeyEscape) == glfw.Press {
		app.Exit()
		return
	}

	width, height := state.windowGlfw.GetFramebufferSize()
	if width <= 0 || height <= 0 {
		return // minimized
	}
	if width != state.WindowWidth || height != state.WindowHeight {
		state.WindowWidth = width
		state.WindowHeight = height
		gpuState.surfaceConfig.Width = uint32(width)
		gpuState.surfaceConfig.Height = uint32(height)
		gpuState.surface.Configure(gpuState.adapter, gpuState.device, gpuState.surfaceConfig)
	}
}
