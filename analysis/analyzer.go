package analysis

import (
	"fmt"
	"log"
	"math"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Config конфигурация анализатора
type Config struct {
	SampleRate int
	FFTSize    int     // размер кадра анализа и FFT
	NumMels    int     // число mel-фильтров
	NumCoeffs  int     // размерность итогового вектора признаков D
	HighPassHz float64 // частота среза входного фильтра, 0 отключает
}

// DefaultConfig возвращает конфигурацию анализатора по умолчанию
func DefaultConfig() Config {
	return Config{
		SampleRate: 48000,
		FFTSize:    1024,
		NumMels:    40,
		NumCoeffs:  13,
		HighPassHz: 60,
	}
}

// Analyzer потоковый анализатор тембра.
// Горутина захвата пишет семплы через Push, любая другая сторона
// в любой момент запрашивает Current: MFCC-вектор последнего кадра
type Analyzer struct {
	config Config
	mel    [][]float64
	dct    [][]float64
	window []float64
	fft    *fourier.FFT

	mu   sync.Mutex
	ring []float32 // последние FFTSize семплов
	pos  int
}

// NewAnalyzer создаёт анализатор с предвычисленными фильтрами и FFT
func NewAnalyzer(config Config) (*Analyzer, error) {
	if config.NumCoeffs <= 0 {
		return nil, fmt.Errorf("number of coefficients must be positive, got %d", config.NumCoeffs)
	}
	if config.NumCoeffs > config.NumMels {
		return nil, fmt.Errorf("number of coefficients %d exceeds mel filter count %d",
			config.NumCoeffs, config.NumMels)
	}
	if config.FFTSize <= 0 || config.FFTSize&(config.FFTSize-1) != 0 {
		return nil, fmt.Errorf("FFT size must be a positive power of two, got %d", config.FFTSize)
	}

	a := &Analyzer{
		config: config,
		mel:    melFilterbank(config.FFTSize, config.NumMels, config.SampleRate),
		dct:    dctMatrix(config.NumCoeffs, config.NumMels),
		window: hannWindow(config.FFTSize),
		fft:    fourier.NewFFT(config.FFTSize),
		ring:   make([]float32, config.FFTSize),
	}

	log.Printf("[Analyzer] Initialized: rate=%d fft=%d mels=%d coeffs=%d",
		config.SampleRate, config.FFTSize, config.NumMels, config.NumCoeffs)
	return a, nil
}

// Dim возвращает размерность вектора признаков
func (a *Analyzer) Dim() int {
	return a.config.NumCoeffs
}

// Push дописывает захваченные семплы в кольцо анализатора.
// Вызывается единственной горутиной захвата
func (a *Analyzer) Push(samples []float32) {
	a.mu.Lock()
	for _, s := range samples {
		a.ring[a.pos] = s
		a.pos = (a.pos + 1) % len(a.ring)
	}
	a.mu.Unlock()
}

// Current возвращает MFCC-вектор последнего кадра сигнала.
// До прихода первых семплов кольцо нулевое и вектор описывает тишину
func (a *Analyzer) Current() []float64 {
	frame := make([]float64, a.config.FFTSize)

	a.mu.Lock()
	// Кольцо раскладывается в хронологический порядок
	for i := 0; i < len(a.ring); i++ {
		frame[i] = float64(a.ring[(a.pos+i)%len(a.ring)])
	}
	a.mu.Unlock()

	return a.features(frame)
}

// WindowFeatures вычисляет усреднённый вектор признаков отрезка файла.
// Отрезок нарезается кадрами FFTSize с шагом FFTSize/2; используется
// и оффлайн-построителем корпуса, и тестами, та же цепочка что в Current
func (a *Analyzer) WindowFeatures(samples []float32) []float64 {
	hop := a.config.FFTSize / 2
	mean := make([]float64, a.config.NumCoeffs)

	numFrames := 0
	frame := make([]float64, a.config.FFTSize)
	for start := 0; start+a.config.FFTSize <= len(samples); start += hop {
		for i := 0; i < a.config.FFTSize; i++ {
			frame[i] = float64(samples[start+i])
		}
		coeffs := a.features(frame)
		for i := range mean {
			mean[i] += coeffs[i]
		}
		numFrames++
	}

	if numFrames == 0 {
		// Отрезок короче кадра: один кадр с дополнением нулями
		for i := range frame {
			if i < len(samples) {
				frame[i] = float64(samples[i])
			} else {
				frame[i] = 0
			}
		}
		return a.features(frame)
	}

	for i := range mean {
		mean[i] /= float64(numFrames)
	}
	return mean
}

// features вычисляет MFCC одного кадра: фильтр, окно, FFT,
// спектр мощности, mel-энергии, логарифм, DCT
func (a *Analyzer) features(frame []float64) []float64 {
	if a.config.HighPassHz > 0 {
		frame = highPass(frame, a.config.SampleRate, a.config.HighPassHz)
	}

	windowed := make([]float64, a.config.FFTSize)
	for i := range windowed {
		windowed[i] = frame[i] * a.window[i]
	}

	coeffs := a.fft.Coefficients(nil, windowed)

	// Спектр мощности, только положительные частоты
	powerSpec := make([]float64, a.config.FFTSize/2+1)
	for i := 0; i <= a.config.FFTSize/2; i++ {
		re := real(coeffs[i])
		im := imag(coeffs[i])
		powerSpec[i] = re*re + im*im
	}

	logMel := make([]float64, a.config.NumMels)
	for m := 0; m < a.config.NumMels; m++ {
		var sum float64
		for k := 0; k < len(powerSpec); k++ {
			sum += powerSpec[k] * a.mel[m][k]
		}
		if sum < 1e-9 {
			sum = 1e-9
		}
		logMel[m] = math.Log(sum)
	}

	return applyDCT(a.dct, logMel)
}
