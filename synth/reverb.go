package synth

// Реверберация по схеме Шрёдера: параллельные гребёнки с обратной
// связью, затем последовательные фазовые звенья. Правый канал получает
// смещённые задержки для стереоширины

var combTuning = []int{1116, 1188, 1277, 1356}

var allpassTuning = []int{556, 441}

const (
	stereoSpread = 23
	combFeedback = 0.805
	allpassGain  = 0.5
	combInGain   = 0.25
)

type comb struct {
	buf      []float32
	pos      int
	feedback float32
}

func (c *comb) process(x float32) float32 {
	y := c.buf[c.pos]
	c.buf[c.pos] = x + y*c.feedback
	c.pos++
	if c.pos == len(c.buf) {
		c.pos = 0
	}
	return y
}

type allpass struct {
	buf  []float32
	pos  int
	gain float32
}

func (a *allpass) process(x float32) float32 {
	b := a.buf[a.pos]
	v := x + a.gain*b
	y := b - a.gain*v
	a.buf[a.pos] = v
	a.pos++
	if a.pos == len(a.buf) {
		a.pos = 0
	}
	return y
}

type channelVerb struct {
	combs     []*comb
	allpasses []*allpass
}

func newChannelVerb(sampleRate, spread int) *channelVerb {
	scale := float64(sampleRate) / 44100.0
	cv := &channelVerb{}
	for _, d := range combTuning {
		size := int(float64(d)*scale) + spread
		cv.combs = append(cv.combs, &comb{
			buf:      make([]float32, size),
			feedback: combFeedback,
		})
	}
	for _, d := range allpassTuning {
		size := int(float64(d)*scale) + spread
		cv.allpasses = append(cv.allpasses, &allpass{
			buf:  make([]float32, size),
			gain: allpassGain,
		})
	}
	return cv
}

func (cv *channelVerb) process(x float32) float32 {
	var sum float32
	x *= combInGain
	for _, c := range cv.combs {
		sum += c.process(x)
	}
	for _, a := range cv.allpasses {
		sum = a.process(sum)
	}
	return sum
}

// Reverb общая реверберационная шина голосов с фиксированной долей
// обработанного сигнала
type Reverb struct {
	left  *channelVerb
	right *channelVerb
	mix   float32
}

// NewReverb создаёт шину. mix задаёт долю обработанного сигнала [0, 1]
func NewReverb(sampleRate int, mix float32) *Reverb {
	if mix < 0 {
		mix = 0
	}
	if mix > 1 {
		mix = 1
	}
	return &Reverb{
		left:  newChannelVerb(sampleRate, 0),
		right: newChannelVerb(sampleRate, stereoSpread),
		mix:   mix,
	}
}

// Mix возвращает долю обработанного сигнала
func (r *Reverb) Mix() float32 {
	return r.mix
}

// ProcessBuffer смешивает сухой и обработанный сигнал на месте
func (r *Reverb) ProcessBuffer(buf []float32, frames int) {
	dry := 1 - r.mix
	for i := 0; i < frames; i++ {
		l := buf[i*2]
		rr := buf[i*2+1]
		buf[i*2] = l*dry + r.left.process(l)*r.mix
		buf[i*2+1] = rr*dry + r.right.process(rr)*r.mix
	}
}
