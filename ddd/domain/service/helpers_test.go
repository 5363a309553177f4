package service

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"video-pipeline-service/ddd/domain/port"
	"video-pipeline-service/ddd/domain/vo"
	"video-pipeline-service/pkg/config"
)

// fakeBlobStore keeps uploaded keys in memory and signs only the keys it
// holds, mirroring how a missing variant fails to sign.
type fakeBlobStore struct {
	mu          sync.Mutex
	objects     map[string]string
	failPut     map[string]bool
	downloadErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{
		objects: make(map[string]string),
		failPut: make(map[string]bool),
	}
}

func (f *fakeBlobStore) PutObject(ctx context.Context, key, localPath, contentType string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPut[key] {
		return 0, fmt.Errorf("upload rejected: %s", key)
	}
	f.objects[key] = contentType
	return 1024, nil
}

func (f *fakeBlobStore) DownloadToFile(ctx context.Context, key, localPath string) error {
	if f.downloadErr != nil {
		return f.downloadErr
	}
	return os.WriteFile(localPath, []byte("source-bytes"), 0o644)
}

func (f *fakeBlobStore) DeleteObject(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeBlobStore) SignGetURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[key]; !ok {
		return "", fmt.Errorf("object not found: %s", key)
	}
	return "https://signed.example/" + key, nil
}

func (f *fakeBlobStore) PublicURL(key string, noCache bool) string {
	return "https://cdn.example/" + key
}

func (f *fakeBlobStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

func (f *fakeBlobStore) addObject(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = "video/mp4"
}

// fakeToolkit simulates the media binaries without running them.
type fakeToolkit struct {
	mu           sync.Mutex
	probeResult  vo.ProbeResult
	probeErr     error
	failFormats  map[vo.Format]bool
	frameErrIdx  map[int]bool
	frameCount   int
	transcoded   []port.TranscodeSpec
}

func newFakeToolkit() *fakeToolkit {
	return &fakeToolkit{
		probeResult: vo.ProbeResult{DurationSeconds: 120, Width: 1920, Height: 1080},
		failFormats: make(map[vo.Format]bool),
		frameErrIdx: make(map[int]bool),
	}
}

func (f *fakeToolkit) Probe(ctx context.Context, inputPath string) (vo.ProbeResult, error) {
	if f.probeErr != nil {
		return vo.ProbeResult{}, f.probeErr
	}
	return f.probeResult, nil
}

func (f *fakeToolkit) Transcode(ctx context.Context, spec port.TranscodeSpec, cb port.ProgressCallback) error {
	f.mu.Lock()
	fail := f.failFormats[spec.Format]
	if !fail {
		f.transcoded = append(f.transcoded, spec)
	}
	f.mu.Unlock()
	if fail {
		return fmt.Errorf("encoder crashed for %s", spec.Format)
	}
	if cb != nil {
		cb(50)
		cb(100)
	}
	return os.WriteFile(spec.OutputPath, []byte("rendition"), 0o644)
}

func (f *fakeToolkit) ExtractFrame(ctx context.Context, inputPath, outputPath string, offsetSeconds float64, width, height int) error {
	f.mu.Lock()
	idx := f.frameCount
	f.frameCount++
	fail := f.frameErrIdx[idx]
	f.mu.Unlock()
	if fail {
		return fmt.Errorf("frame extraction failed at %.1fs", offsetSeconds)
	}
	return os.WriteFile(outputPath, []byte("jpeg"), 0o644)
}

// fakeURLCache records gets and sets in memory.
type fakeURLCache struct {
	mu      sync.Mutex
	entries map[string]string
	sets    int
	hits    int
}

func newFakeURLCache() *fakeURLCache {
	return &fakeURLCache{entries: make(map[string]string)}
}

func (f *fakeURLCache) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if url, ok := f.entries[key]; ok {
		f.hits++
		return url, nil
	}
	return "", nil
}

func (f *fakeURLCache) Set(ctx context.Context, key string, url string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = url
	f.sets++
	return nil
}

// newTestConfig builds a config with pipeline defaults and a per-test
// scratch directory.
func newTestConfig(scratchDir string) *config.Config {
	cfg := &config.Config{}
	cfg.Processing.ScratchDir = scratchDir
	cfg.Processing.ThumbnailCount = 3
	cfg.Processing.QualityLadder = []config.QualityTierConfig{
		{Name: "high", Width: 1280, Height: 720},
		{Name: "medium", Width: 854, Height: 480},
		{Name: "low", Width: 640, Height: 360},
	}
	cfg.Processing.Formats = []string{"mp4", "webm"}
	cfg.Worker.MaxConcurrentPairs = 4
	cfg.Streaming.SignTTL = 4 * time.Hour
	cfg.Streaming.URLCacheTTL = 2 * time.Hour
	return cfg
}
