package neurotoy

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"reflect"
	"strconv"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// syncedBuffer keeps a CPU slice and a GPU buffer in step. Uploads are lazy:
// set marks the buffer dirty, sync uploads on demand and grows the GPU
// allocation to the next power of two when the data outgrows it.
type syncedBuffer[T any] struct {
	label string
	usage wgpu.BufferUsage

	cpu    []T
	gpu    *wgpu.Buffer
	gpuLen int // elements uploaded
	gpuCap int // elements allocated
	dirty  bool
}

func newSyncedBuffer[T any](device *wgpu.Device, label string, usage wgpu.BufferUsage) *syncedBuffer[T] {
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  0,
		Usage: usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}
	return &syncedBuffer[T]{
		label: label,
		usage: usage,
		gpu:   buf,
	}
}

// set replaces the CPU contents. The GPU side is stale until sync runs.
func (b *syncedBuffer[T]) set(values []T) {
	b.cpu = append(b.cpu[:0], values...)
	b.dirty = true
}

// sync uploads dirty CPU contents. It reports whether the GPU buffer was
// reallocated, in which case bind groups referencing it must be rebuilt.
func (b *syncedBuffer[T]) sync(device *wgpu.Device, queue *wgpu.Queue) bool {
	if !b.dirty {
		return false
	}
	b.dirty = false

	reallocated := false
	if b.gpuCap < len(b.cpu) {
		b.gpuCap = nextPowerOfTwo(len(b.cpu))
		b.gpu.Release()
		var elem T
		buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: b.label,
			Size:  uint64(b.gpuCap) * uint64(unsafe.Sizeof(elem)),
			Usage: b.usage | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			panic(err)
		}
		b.gpu = buf
		reallocated = true
	}

	if len(b.cpu) > 0 {
		if err := queue.WriteBuffer(b.gpu, 0, wgpu.ToBytes(b.cpu)); err != nil {
			panic(err)
		}
	}
	b.gpuLen = len(b.cpu)
	return reallocated
}

func (b *syncedBuffer[T]) buffer() *wgpu.Buffer { return b.gpu }
func (b *syncedBuffer[T]) count() int           { return b.gpuLen }

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// createVertexBufferLayout derives a wgpu vertex layout from struct tags:
//
//	Center [2]float32 `neurotoy:"layout" format:"float2" location:"1"`
//
// Fields without the layout tag still advance the stride, which is how
// padding slots are expressed.
func createVertexBufferLayout(vertexType any, stepMode wgpu.VertexStepMode) wgpu.VertexBufferLayout {
	t := reflect.TypeOf(vertexType)
	if t.Kind() != reflect.Struct {
		panic("Vertex must be a struct")
	}

	var attributes []wgpu.VertexAttribute
	var offset uint64 = 0

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if "layout" == field.Tag.Get("neurotoy") {
			format := parseFormat(field.Tag.Get("format"))
			location, err := strconv.Atoi(field.Tag.Get("location"))
			if nil != err {
				panic(err)
			}

			attributes = append(attributes, wgpu.VertexAttribute{
				ShaderLocation: uint32(location),
				Offset:         offset,
				Format:         format,
			})
		}

		offset += uint64(field.Type.Size())
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    stepMode,
		Attributes:  attributes,
	}
}

func parseFormat(name string) wgpu.VertexFormat {
	switch name {
	case "float":
		return wgpu.VertexFormatFloat32
	case "float2":
		return wgpu.VertexFormatFloat32x2
	case "float3":
		return wgpu.VertexFormatFloat32x3
	case "float4":
		return wgpu.VertexFormatFloat32x4
	case "uint":
		return wgpu.VertexFormatUint32
	default:
		panic("unsupported vertex layout format: " + name)
	}
}

// createRenderPipeline builds a pipeline with auto bind group layouts from
// embedded WGSL. Culling is off: the y flip in the shared transform inverts
// quad winding, and both pipelines want every quad visible regardless.
func createRenderPipeline(name string, shaderCode string, buffers []wgpu.VertexBufferLayout, blend *wgpu.BlendState, gpuState *GpuState) *wgpu.RenderPipeline {
	shader, err := gpuState.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          name,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaderCode},
	})
	if err != nil {
		panic(err)
	}
	defer shader.Release()

	pipeline, err := gpuState.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: name,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    buffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    gpuState.surfaceConfig.Format,
					Blend:     blend,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	})
	if err != nil {
		panic(err)
	}
	return pipeline
}

func createVertexIndexBuffers[T any](vertices []T, indices []uint16, device *wgpu.Device) (vertexBuf *wgpu.Buffer, indexBuf *wgpu.Buffer) {
	vertexBuf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Vertex Buffer",
		Contents: wgpu.ToBytes(vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		panic(err)
	}
	indexBuf, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Index Buffer",
		Contents: wgpu.ToBytes(indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		panic(err)
	}
	return vertexBuf, indexBuf
}

// toBufferBytes serializes a uniform struct field by field, little endian.
// Padding must be explicit fields; Go struct layout is not trusted to match
// WGSL alignment on its own.
func toBufferBytes(data any) []byte {
	buf := new(bytes.Buffer)
	writeUniformBytes(reflect.ValueOf(data), buf)
	return buf.Bytes()
}

func writeUniformBytes(val reflect.Value, buf *bytes.Buffer) {
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	switch val.Kind() {
	case reflect.Struct:
		for i := 0; i < val.NumField(); i++ {
			writeUniformBytes(val.Field(i), buf)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < val.Len(); i++ {
			writeUniformBytes(val.Index(i), buf)
		}
	case reflect.Float32, reflect.Uint32, reflect.Int32, reflect.Uint16:
		if err := binary.Write(buf, binary.LittleEndian, val.Interface()); err != nil {
			panic(fmt.Errorf("failed to write uniform field: %w", err))
		}
	default:
		panic(fmt.Errorf("unsupported uniform type: %v", val.Kind()))
	}
}

func createUniformBuffer(name string, data any, gpuState *GpuState) *wgpu.Buffer {
	buffer, err := gpuState.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    name,
		Contents: toBufferBytes(data),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}
	return buffer
}
