// Package audio отвечает за аудио-ввод/вывод движка: захват микрофона,
// устройство воспроизведения, петлевой буфер и декодирование исходных
// файлов корпуса
package audio

import (
	"fmt"
	"log"
	"math"
	"strings"
	"sync"

	"github.com/gen2brain/malgo"
)

// SampleRate частота дискретизации движка, Гц.
// Захват, синтез и декодированные файлы корпуса приводятся к ней
const SampleRate = 48000

// Device описание аудио устройства для выбора и вывода списка
type Device struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsInput  bool   `json:"isInput"`
	IsOutput bool   `json:"isOutput"`
}

// Capture захват аудио с микрофона: моно, float32, SampleRate.
// Захваченные куски отдаются в буферизованный канал Data
type Capture struct {
	ctx    *malgo.AllocatedContext
	device *malgo.Device

	deviceID *malgo.DeviceID

	dataChan chan []float32
	mu       sync.Mutex
	running  bool
}

// NewCapture создаёт контекст захвата
func NewCapture() (*Capture, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, err
	}

	return &Capture{
		ctx:      ctx,
		dataChan: make(chan []float32, 1000), // Большой буфер чтобы не терять данные
	}, nil
}

// ListDevices возвращает список доступных аудио устройств
func (c *Capture) ListDevices() ([]Device, error) {
	var devices []Device

	captureDevices, err := c.ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate capture devices: %w", err)
	}

	for _, dev := range captureDevices {
		devices = append(devices, Device{
			ID:      deviceIDToString(dev.ID),
			Name:    dev.Name(),
			IsInput: true,
		})
	}

	playbackDevices, err := c.ctx.Devices(malgo.Playback)
	if err != nil {
		log.Printf("Warning: failed to enumerate playback devices: %v", err)
	} else {
		for _, dev := range playbackDevices {
			name := dev.Name()
			found := false
			for i := range devices {
				if devices[i].Name == name {
					devices[i].IsOutput = true
					found = true
					break
				}
			}
			if !found {
				devices = append(devices, Device{
					ID:       deviceIDToString(dev.ID),
					Name:     name,
					IsOutput: true,
				})
			}
		}
	}

	return devices, nil
}

// FindDeviceByName ищет устройство захвата по имени (частичное совпадение)
func (c *Capture) FindDeviceByName(name string) (*malgo.DeviceID, error) {
	devices, err := c.ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, err
	}

	nameLower := strings.ToLower(name)
	for _, dev := range devices {
		if strings.Contains(strings.ToLower(dev.Name()), nameLower) {
			id := dev.ID
			return &id, nil
		}
	}
	return nil, fmt.Errorf("device not found: %s", name)
}

// SetDeviceByName выбирает устройство захвата по имени.
// Пустое имя означает устройство по умолчанию
func (c *Capture) SetDeviceByName(name string) error {
	if name == "" || name == "default" {
		c.deviceID = nil
		return nil
	}

	id, err := c.FindDeviceByName(name)
	if err != nil {
		return err
	}
	c.deviceID = id
	log.Printf("[Capture] Device selected: %s", name)
	return nil
}

// Start запускает захват микрофона
func (c *Capture) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return fmt.Errorf("already running")
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = 1
	deviceConfig.SampleRate = SampleRate
	deviceConfig.Alsa.NoMMap = 1

	if c.deviceID != nil {
		deviceConfig.Capture.DeviceID = c.deviceID.Pointer()
	}

	onRecvFrames := func(pOutputSample, pInputSamples []byte, framecount uint32) {
		sampleCount := int(framecount)

		if len(pInputSamples) != sampleCount*4 {
			return
		}

		samples := make([]float32, sampleCount)
		for i := 0; i < sampleCount; i++ {
			bits := uint32(pInputSamples[i*4]) | uint32(pInputSamples[i*4+1])<<8 |
				uint32(pInputSamples[i*4+2])<<16 | uint32(pInputSamples[i*4+3])<<24
			samples[i] = math.Float32frombits(bits)
		}

		// Блокируемся если буфер полон, данные не теряем
		c.dataChan <- samples
	}

	var err error
	c.device, err = malgo.InitDevice(c.ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onRecvFrames,
	})
	if err != nil {
		return fmt.Errorf("failed to init capture device: %w", err)
	}

	if err := c.device.Start(); err != nil {
		return fmt.Errorf("failed to start capture device: %w", err)
	}

	c.running = true
	log.Println("[Capture] Microphone capture started")
	return nil
}

// Stop останавливает захват
func (c *Capture) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return nil
	}

	if c.device != nil {
		c.device.Uninit()
		c.device = nil
	}

	c.running = false
	log.Println("[Capture] Microphone capture stopped")
	return nil
}

// Data возвращает канал с кусками захваченных семплов
func (c *Capture) Data() <-chan []float32 {
	return c.dataChan
}

// ClearBuffers выбрасывает накопленные в канале данные.
// Вызывается перед началом слушания чтобы не захватить старый сигнал
func (c *Capture) ClearBuffers() {
	for {
		select {
		case <-c.dataChan:
		default:
			return
		}
	}
}

// Close освобождает ресурсы
func (c *Capture) Close() {
	c.Stop()
	if c.ctx != nil {
		c.ctx.Uninit()
		c.ctx.Free()
	}
}

// deviceIDToString переводит DeviceID в строку для показа в списке устройств
func deviceIDToString(id malgo.DeviceID) string {
	var result strings.Builder
	for _, b := range id[:32] {
		if b == 0 {
			break
		}
		result.WriteByte(b)
	}
	return result.String()
}
