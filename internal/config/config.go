package config

import (
	"flag"
)

type Config struct {
	CorpusPath string
	AudioDir   string

	BPM               int
	BeatsPerMeasure   int
	MeasuresPerPhrase int
	Interactive       bool

	K         int
	Voices    int
	NumFrames int
	NumCoeffs int

	Device      string
	ListDevices bool

	Record    bool
	RecordMP3 bool
	RecordDir string

	Port     string
	GRPCAddr string
}

func Load() *Config {
	corpusPath := flag.String("corpus", "corpus.txt", "Path to corpus feature file")
	audioDir := flag.String("audio-dir", "", "Directory with corpus source audio (default: corpus file directory)")
	bpm := flag.Int("tempo", 120, "Tempo in BPM")
	beats := flag.Int("beats", 4, "Beats per measure")
	measures := flag.Int("measures", 2, "Measures per phrase")
	interactive := flag.Bool("interactive", false, "Ask tempo parameters on the console")
	k := flag.Int("k", 5, "Number of nearest corpus windows per response")
	voices := flag.Int("voices", 8, "Voice pool size")
	frames := flag.Int("frames", 8, "Frames averaged per listening window")
	coeffs := flag.Int("coeffs", 13, "MFCC coefficients per frame")
	device := flag.String("device", "", "Capture device name substring (default: system default)")
	listDevices := flag.Bool("list-devices", false, "List audio devices and exit")
	record := flag.Bool("record", false, "Record the performance to WAV")
	recordMP3 := flag.Bool("mp3", false, "Also record an MP3 track")
	recordDir := flag.String("record-dir", "recordings", "Directory for performance recordings")
	port := flag.String("port", "8765", "Monitor HTTP port")
	grpcAddr := flag.String("pipe", "", "Control gRPC address (unix:/path, npipe:\\\\.\\pipe\\name or host:port)")
	flag.Parse()

	return &Config{
		CorpusPath:        *corpusPath,
		AudioDir:          *audioDir,
		BPM:               *bpm,
		BeatsPerMeasure:   *beats,
		MeasuresPerPhrase: *measures,
		Interactive:       *interactive,
		K:                 *k,
		Voices:            *voices,
		NumFrames:         *frames,
		NumCoeffs:         *coeffs,
		Device:            *device,
		ListDevices:       *listDevices,
		Record:            *record,
		RecordMP3:         *recordMP3,
		RecordDir:         *recordDir,
		Port:              *port,
		GRPCAddr:          *grpcAddr,
	}
}
