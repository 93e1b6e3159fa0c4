package neurotoy

import (
	"reflect"

	"github.com/cogentcore/webgpu/wgpu"
)

// Shared quad mesh, reused by every neuron and synapse instance. Local
// coordinates span [-1,1] on both axes; the neuron fragment stage uses them
// directly as the circle containment test.
type quadVertex struct {
	Corner [2]float32 `neurotoy:"layout" format:"float2" location:"0"`
}

var quadVertices = []quadVertex{
	{Corner: [2]float32{-1, -1}},
	{Corner: [2]float32{1, -1}},
	{Corner: [2]float32{1, 1}},
	{Corner: [2]float32{-1, 1}},
}

var quadIndices = []uint16{0, 1, 2, 0, 2, 3}

type neuronInstance struct {
	Center [2]float32 `neurotoy:"layout" format:"float2" location:"1"`
	Radius float32    `neurotoy:"layout" format:"float" location:"2"`
	Pad    float32    `neurotoy:"layout" format:"float" location:"3"`
}

type synapseInstance struct {
	EndA [2]float32 `neurotoy:"layout" format:"float2" location:"1"`
	EndB [2]float32 `neurotoy:"layout" format:"float2" location:"2"`
}

type windowUniform struct {
	Width  float32
	Height float32
}

// lineStyleUniform carries the synapse half-thickness, padded to 16 bytes.
type lineStyleUniform struct {
	HalfThickness float32
	Pad0          float32
	Pad1          float32
	Pad2          float32
}

// DefaultLineHalfThickness is the world-space half-thickness synapse lines
// are drawn with unless the render module overrides it.
const DefaultLineHalfThickness float32 = 0.05

var alphaBlend = &wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}

type renderState struct {
	quadVertexBuf *wgpu.Buffer
	quadIndexBuf  *wgpu.Buffer

	neuronInstances  *syncedBuffer[neuronInstance]
	neuronPotentials *syncedBuffer[float32]
	neuronPipeline   *wgpu.RenderPipeline
	neuronBindGroups [3]*wgpu.BindGroup

	synapseInstances  *syncedBuffer[synapseInstance]
	synapseStates     *syncedBuffer[uint32]
	synapsePipeline   *wgpu.RenderPipeline
	synapseBindGroups [3]*wgpu.BindGroup

	windowBuffer *wgpu.Buffer
	cameraBuffer *wgpu.Buffer
	styleBuffer  *wgpu.Buffer

	lastGeometryVersion int
}

// RenderModule builds the two instanced pipelines and draws the model every
// frame: synapses first, neurons on top, standard over-blending.
type RenderModule struct {
	// LineHalfThickness is the world-space half-thickness of synapse lines.
	// Zero means DefaultLineHalfThickness.
	LineHalfThickness float32
}

func (mod RenderModule) Install(app *App) {
	gpuState := app.Resource(reflect.TypeOf(GpuState{})).(*GpuState)
	windowState := app.Resource(reflect.TypeOf(WindowState{})).(*WindowState)

	halfThickness := mod.LineHalfThickness
	if halfThickness <= 0 {
		halfThickness = DefaultLineHalfThickness
	}

	rs := createRenderState(gpuState, windowState, halfThickness)
	app.AddResources(rs)
	app.Logger().Infof("Render pipelines ready (surface format %v)", gpuState.surfaceConfig.Format)

	app.UseSystem(
		System(renderUploadSystem).InStage(PreRender),
	)
	app.UseSystem(
		System(renderSystem).InStage(Render),
	)
}

func createRenderState(gpuState *GpuState, windowState *WindowState, halfThickness float32) *renderState {
	device := gpuState.device
	queue := gpuState.queue

	quadVertexBuf, quadIndexBuf := createVertexIndexBuffers(quadVertices, quadIndices, device)

	windowBuffer := createUniformBuffer("Window Uniform", windowUniform{
		Width:  float32(windowState.WindowWidth),
		Height: float32(windowState.WindowHeight),
	}, gpuState)
	cameraBuffer := createUniformBuffer("Camera Uniform", cameraUniform{Zoom: 1}, gpuState)
	styleBuffer := createUniformBuffer("Line Style Uniform", lineStyleUniform{
		HalfThickness: halfThickness,
	}, gpuState)

	quadLayout := createVertexBufferLayout(quadVertex{}, wgpu.VertexStepModeVertex)

	neuronInstances := newSyncedBuffer[neuronInstance](device, "Neuron Instances", wgpu.BufferUsageVertex)
	neuronPotentials := newSyncedBuffer[float32](device, "Neuron Potentials", wgpu.BufferUsageStorage)
	// Storage buffers may not be empty when bound; seed one zero entry.
	neuronPotentials.set([]float32{0})
	neuronPotentials.sync(device, queue)
	neuronPipeline := createRenderPipeline(
		"Neuron Pipeline",
		neuronShaderCode,
		[]wgpu.VertexBufferLayout{
			quadLayout,
			createVertexBufferLayout(neuronInstance{}, wgpu.VertexStepModeInstance),
		},
		alphaBlend,
		gpuState,
	)

	synapseInstances := newSyncedBuffer[synapseInstance](device, "Synapse Instances", wgpu.BufferUsageVertex)
	synapseStates := newSyncedBuffer[uint32](device, "Synapse States", wgpu.BufferUsageStorage)
	synapseStates.set([]uint32{0})
	synapseStates.sync(device, queue)
	synapsePipeline := createRenderPipeline(
		"Synapse Pipeline",
		synapseShaderCode,
		[]wgpu.VertexBufferLayout{
			quadLayout,
			createVertexBufferLayout(synapseInstance{}, wgpu.VertexStepModeInstance),
		},
		alphaBlend,
		gpuState,
	)

	rs := &renderState{
		quadVertexBuf:    quadVertexBuf,
		quadIndexBuf:     quadIndexBuf,
		neuronInstances:  neuronInstances,
		neuronPotentials: neuronPotentials,
		neuronPipeline:   neuronPipeline,
		synapseInstances: synapseInstances,
		synapseStates:    synapseStates,
		synapsePipeline:  synapsePipeline,
		windowBuffer:     windowBuffer,
		cameraBuffer:     cameraBuffer,
		styleBuffer:      styleBuffer,

		lastGeometryVersion: -1,
	}
	rs.rebuildNeuronBindGroups(device)
	rs.rebuildSynapseBindGroups(device)
	return rs
}

func (rs *renderState) rebuildNeuronBindGroups(device *wgpu.Device) {
	rs.neuronBindGroups[0] = createBindGroup(device, rs.neuronPipeline, 0, []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: rs.windowBuffer, Size: wgpu.WholeSize},
	})
	rs.neuronBindGroups[1] = createBindGroup(device, rs.neuronPipeline, 1, []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: rs.cameraBuffer, Size: wgpu.WholeSize},
	})
	rs.neuronBindGroups[2] = createBindGroup(device, rs.neuronPipeline, 2, []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: rs.neuronPotentials.buffer(), Size: wgpu.WholeSize},
	})
}

func (rs *renderState) rebuildSynapseBindGroups(device *wgpu.Device) {
	rs.synapseBindGroups[0] = createBindGroup(device, rs.synapsePipeline, 0, []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: rs.windowBuffer, Size: wgpu.WholeSize},
	})
	rs.synapseBindGroups[1] = createBindGroup(device, rs.synapsePipeline, 1, []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: rs.cameraBuffer, Size: wgpu.WholeSize},
	})
	rs.synapseBindGroups[2] = createBindGroup(device, rs.synapsePipeline, 2, []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: rs.synapseStates.buffer(), Size: wgpu.WholeSize},
		{Binding: 1, Buffer: rs.styleBuffer, Size: wgpu.WholeSize},
	})
}

func createBindGroup(device *wgpu.Device, pipeline *wgpu.RenderPipeline, group uint32, entries []wgpu.BindGroupEntry) *wgpu.BindGroup {
	layout := pipeline.GetBindGroupLayout(group)
	defer layout.Release()

	bindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		panic(err)
	}
	return bindGroup
}

// renderUploadSystem pushes per-frame state to the GPU: window and camera
// uniforms unconditionally (they are tiny), instance geometry only when the
// layout changed, potentials and synapse states every frame.
func renderUploadSystem(rs *renderState, gpuState *GpuState, windowState *WindowState, cam *CameraState, sim *SimulationState) {
	device := gpuState.device
	queue := gpuState.queue

	if err := queue.WriteBuffer(rs.windowBuffer, 0, toBufferBytes(windowUniform{
		Width:  float32(windowState.WindowWidth),
		Height: float32(windowState.WindowHeight),
	})); err != nil {
		panic(err)
	}
	if err := queue.WriteBuffer(rs.cameraBuffer, 0, toBufferBytes(cam.uniform())); err != nil {
		panic(err)
	}

	if rs.lastGeometryVersion != sim.GeometryVersion {
		rs.lastGeometryVersion = sim.GeometryVersion

		instances := make([]neuronInstance, len(sim.Neurons))
		for i, n := range sim.Neurons {
			instances[i] = neuronInstance{
				Center: [2]float32{n.Center.X(), n.Center.Y()},
				Radius: n.Radius,
			}
		}
		rs.neuronInstances.set(instances)

		segs := make([]synapseInstance, len(sim.Synapses))
		for i, s := range sim.Synapses {
			segs[i] = synapseInstance{
				EndA: [2]float32{s.EndA.X(), s.EndA.Y()},
				EndB: [2]float32{s.EndB.X(), s.EndB.Y()},
			}
		}
		rs.synapseInstances.set(segs)
	}

	rs.neuronPotentials.set(sim.Model.Potentials())
	rs.synapseStates.set(sim.Model.SynapseStates())

	rs.neuronInstances.sync(device, queue)
	rs.synapseInstances.sync(device, queue)
	if rs.neuronPotentials.sync(device, queue) {
		rs.rebuildNeuronBindGroups(device)
	}
	if rs.synapseStates.sync(device, queue) {
		rs.rebuildSynapseBindGroups(device)
	}
}

// renderSystem draws one frame: synapses below, neurons on top. Draw order
// is the only layering mechanism, so it must stay consistent.
func renderSystem(app *App, rs *renderState, gpuState *GpuState) {
	nextTexture, err := gpuState.surface.GetCurrentTexture()
	if err != nil {
		// Lost or outdated swapchain; reconfigure and try again next frame.
		app.Logger().Warnf("Skipping frame, surface unavailable: %v", err)
		gpuState.surface.Configure(gpuState.adapter, gpuState.device, gpuState.surfaceConfig)
		return
	}
	view, err := nextTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}
	defer view.Release()
	encoder, err := gpuState.device.CreateCommandEncoder(nil)
	if err != nil {
		panic(err)
	}
	defer encoder.Release()

	renderPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0.02, G: 0.02, B: 0.03, A: 1.0},
			},
		},
	})
	defer renderPass.Release()

	if count := rs.synapseInstances.count(); count > 0 {
		renderPass.SetPipeline(rs.synapsePipeline)
		renderPass.SetBindGroup(0, rs.synapseBindGroups[0], nil)
		renderPass.SetBindGroup(1, rs.synapseBindGroups[1], nil)
		renderPass.SetBindGroup(2, rs.synapseBindGroups[2], nil)
		renderPass.SetVertexBuffer(0, rs.quadVertexBuf, 0, wgpu.WholeSize)
		renderPass.SetVertexBuffer(1, rs.synapseInstances.buffer(), 0, wgpu.WholeSize)
		renderPass.SetIndexBuffer(rs.quadIndexBuf, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
		renderPass.DrawIndexed(uint32(len(quadIndices)), uint32(count), 0, 0, 0)
	}

	if count := rs.neuronInstances.count(); count > 0 {
		renderPass.SetPipeline(rs.neuronPipeline)
		renderPass.SetBindGroup(0, rs.neuronBindGroups[0], nil)
		renderPass.SetBindGroup(1, rs.neuronBindGroups[1], nil)
		renderPass.SetBindGroup(2, rs.neuronBindGroups[2], nil)
		renderPass.SetVertexBuffer(0, rs.quadVertexBuf, 0, wgpu.WholeSize)
		renderPass.SetVertexBuffer(1, rs.neuronInstances.buffer(), 0, wgpu.WholeSize)
		renderPass.SetIndexBuffer(rs.quadIndexBuf, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
		renderPass.DrawIndexed(uint32(len(quadIndices)), uint32(count), 0, 0, 0)
	}

	if err := renderPass.End(); err != nil {
		panic(err)
	}
	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		panic(err)
	}
	defer cmdBuffer.Release()

	gpuState.queue.Submit(cmdBuffer)
	gpuState.surface.Present()
}
