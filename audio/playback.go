package audio

import (
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/gen2brain/malgo"
)

// Renderer источник звука для устройства воспроизведения.
// Render дописывает frames стерео-кадров в out (interleaved, len=frames*2);
// буфер приходит обнулённым, источники суммируют себя в него
type Renderer interface {
	Render(out []float32, frames int)
}

// Playback устройство вывода: стерео, float32, SampleRate.
// В callback устройства кадры запрашиваются у Renderer, затем копия
// уходит в tap (если установлен) для записи сессии
type Playback struct {
	ctx      *malgo.AllocatedContext
	device   *malgo.Device
	renderer Renderer

	mu      sync.Mutex
	tap     func([]float32)
	scratch []float32
	running bool
}

// NewPlayback создаёт контекст воспроизведения для renderer
func NewPlayback(renderer Renderer) (*Playback, error) {
	if renderer == nil {
		return nil, fmt.Errorf("renderer is nil")
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, err
	}

	return &Playback{ctx: ctx, renderer: renderer}, nil
}

// SetTap устанавливает получателя копии отрендеренных кадров.
// nil снимает tap. Вызов из callback короткий, делать в нём
// долгую работу нельзя
func (p *Playback) SetTap(tap func([]float32)) {
	p.mu.Lock()
	p.tap = tap
	p.mu.Unlock()
}

// Start запускает устройство вывода
func (p *Playback) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return fmt.Errorf("already running")
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = 2
	deviceConfig.SampleRate = SampleRate
	deviceConfig.Alsa.NoMMap = 1

	onSendFrames := func(pOutputSample, pInputSamples []byte, framecount uint32) {
		sampleCount := int(framecount) * 2
		if len(pOutputSample) != sampleCount*4 {
			return
		}

		p.mu.Lock()
		if cap(p.scratch) < sampleCount {
			p.scratch = make([]float32, sampleCount)
		}
		buf := p.scratch[:sampleCount]
		for i := range buf {
			buf[i] = 0
		}

		p.renderer.Render(buf, int(framecount))

		if p.tap != nil {
			p.tap(buf)
		}
		p.mu.Unlock()

		for i, s := range buf {
			bits := math.Float32bits(s)
			pOutputSample[i*4] = byte(bits)
			pOutputSample[i*4+1] = byte(bits >> 8)
			pOutputSample[i*4+2] = byte(bits >> 16)
			pOutputSample[i*4+3] = byte(bits >> 24)
		}
	}

	var err error
	p.device, err = malgo.InitDevice(p.ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onSendFrames,
	})
	if err != nil {
		return fmt.Errorf("failed to init playback device: %w", err)
	}

	if err := p.device.Start(); err != nil {
		return fmt.Errorf("failed to start playback device: %w", err)
	}

	p.running = true
	log.Println("[Playback] Output device started")
	return nil
}

// Stop останавливает устройство вывода. Uninit ждёт выхода из
// callback, поэтому зовётся вне мьютекса, который callback берёт
func (p *Playback) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	device := p.device
	p.device = nil
	p.running = false
	p.mu.Unlock()

	if device != nil {
		device.Uninit()
	}

	log.Println("[Playback] Output device stopped")
	return nil
}

// Close освобождает ресурсы
func (p *Playback) Close() {
	p.Stop()
	if p.ctx != nil {
		p.ctx.Uninit()
		p.ctx.Free()
	}
}
