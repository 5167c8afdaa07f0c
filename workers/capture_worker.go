package workers

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/perimeterlab/sentrybackend/alerts"
	"github.com/perimeterlab/sentrybackend/config"
	"github.com/perimeterlab/sentrybackend/media"
	"github.com/perimeterlab/sentrybackend/models"
	"github.com/perimeterlab/sentrybackend/recognition"
	"github.com/perimeterlab/sentrybackend/repository"
	"github.com/perimeterlab/sentrybackend/utils"
)

// CaptureJob is one uploaded capture waiting for a recognition pass.
type CaptureJob struct {
	CaptureRelPath string // relative to the storage base
	UploadedAt     time.Time
}

// CaptureProcessor runs the recognition pipeline off the request path. Each
// worker goroutine owns its own face locator (cascade state is not shareable)
// while all workers read the classifier through the shared handle.
type CaptureProcessor struct {
	JobQueue chan CaptureJob
	Config   config.Config
	Store    *media.LocalStorage
	Events   repository.EventRepositoryInterface
	Handle   *recognition.Handle
	Mailer   alerts.Mailer
	Wg       sync.WaitGroup
	StopChan chan struct{}
	Pending  map[string]bool
	Mutex    sync.Mutex
}

func NewCaptureProcessor(cfg config.Config, store *media.LocalStorage, events repository.EventRepositoryInterface,
	handle *recognition.Handle, mailer alerts.Mailer, queueSize, numWorkers int) *CaptureProcessor {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	proc := &CaptureProcessor{
		JobQueue: make(chan CaptureJob, queueSize),
		Config:   cfg,
		Store:    store,
		Events:   events,
		Handle:   handle,
		Mailer:   mailer,
		StopChan: make(chan struct{}),
		Pending:  make(map[string]bool),
	}
	proc.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go proc.worker(i)
	}
	log.Printf("Started %d capture processing worker(s) with queue size %d", numWorkers, queueSize)
	return proc
}

// worker loads its locator and processes jobs from the queue
func (cp *CaptureProcessor) worker(id int) {
	defer cp.Wg.Done()

	log.Printf("Worker %d: Loading face locator...", id)
	locator, err := recognition.NewCascadeLocator(
		cp.Config.CascadePath, cp.Config.ScaleStep, cp.Config.MinNeighbors, cp.Config.MinFaceSize)
	if err != nil {
		log.Printf("Worker %d: ERROR loading face locator: %v. Worker exiting.", id, err)
		return
	}
	defer locator.Close()

	engine := recognition.NewEngine(locator, cp.Handle, recognition.EngineOptions{
		DistanceThreshold: cp.Config.DistanceThreshold,
	})

	log.Printf("Capture worker %d started", id)
	for {
		select {
		case job, ok := <-cp.JobQueue:
			if !ok {
				log.Printf("Capture worker %d stopping: Job queue closed", id)
				return
			}

			log.Printf("Worker %d: Received capture job for: %s", id, job.CaptureRelPath)
			if err := cp.processCapture(engine, job); err != nil {
				log.Printf("Worker %d: ERROR processing capture %s: %v", id, job.CaptureRelPath, err)
			}

			cp.Mutex.Lock()
			delete(cp.Pending, job.CaptureRelPath)
			cp.Mutex.Unlock()

		case <-cp.StopChan:
			log.Printf("Capture worker %d stopping: Stop signal received", id)
			return
		}
	}
}

// processCapture runs one full pass: recognize, store the annotated output and
// preview, persist the event, then evaluate the alert policy. Alert delivery
// failures are logged and never undo the recorded event.
func (cp *CaptureProcessor) processCapture(engine *recognition.Engine, job CaptureJob) error {
	captureAbsPath, err := cp.Store.GetFullPath(job.CaptureRelPath)
	if err != nil {
		return fmt.Errorf("failed to resolve capture path: %w", err)
	}

	data, err := os.ReadFile(captureAbsPath)
	if err != nil {
		return fmt.Errorf("failed to read capture file: %w", err)
	}

	result, err := engine.Recognize(data)
	if err != nil {
		if errors.Is(err, recognition.ErrImageDecode) {
			// no event and no alert for undecodable input
			return fmt.Errorf("capture is not a decodable image: %w", err)
		}
		return err
	}

	annotatedRelPath, err := cp.Store.Save(media.AssetTypeAnnotated, "", bytes.NewReader(result.Annotated))
	if err != nil {
		return fmt.Errorf("failed to store annotated image: %w", err)
	}
	annotatedAbsPath, err := cp.Store.GetFullPath(annotatedRelPath)
	if err != nil {
		return fmt.Errorf("failed to resolve annotated path: %w", err)
	}

	previewRelPath := ""
	if previewPath, err := media.GeneratePreview(cp.Store, annotatedAbsPath, cp.Config.PreviewMaxSize); err != nil {
		log.Printf("Worker: Warning - preview generation failed for %s: %v", annotatedRelPath, err)
	} else {
		previewRelPath = previewPath
	}

	capturedAt := job.UploadedAt.Unix()
	cameraMake, cameraModel := "", ""
	if meta, err := utils.GetCaptureMetadata(captureAbsPath); err == nil {
		if meta.TakenAt != nil {
			capturedAt = *meta.TakenAt
		}
		if meta.CameraMake != nil {
			cameraMake = *meta.CameraMake
		}
		if meta.CameraModel != nil {
			cameraModel = *meta.CameraModel
		}
	}

	event := models.DetectionEvent{
		CapturePath:    job.CaptureRelPath,
		AnnotatedPath:  annotatedRelPath,
		PreviewPath:    previewRelPath,
		CapturedAt:     capturedAt,
		UnknownPresent: result.UnknownPresent,
		FaceCount:      len(result.Verdicts),
		CameraMake:     cameraMake,
		CameraModel:    cameraModel,
	}
	if err := cp.Events.Create(&event); err != nil {
		return err
	}
	log.Printf("Worker: Recorded event %d for %s (%d face(s), unknown present: %t)",
		event.ID, job.CaptureRelPath, event.FaceCount, event.UnknownPresent)

	unknownCount := 0
	for _, v := range result.Verdicts {
		if v.Unknown {
			unknownCount++
		}
	}

	decision := alerts.Decide(result.UnknownPresent, alerts.EventInfo{
		CapturedAt:    time.Unix(capturedAt, 0),
		CaptureName:   filepath.Base(job.CaptureRelPath),
		AnnotatedPath: annotatedAbsPath,
		AnnotatedURL:  cp.Config.PublicURL + "/api/" + annotatedRelPath,
		FaceCount:     event.FaceCount,
		UnknownCount:  unknownCount,
	})
	if decision.Notify {
		if err := cp.Mailer.Send(decision); err != nil {
			log.Printf("Worker: ERROR delivering alert for event %d: %v", event.ID, err)
		}
	}
	return nil
}

// QueueCapture queues a capture for processing if not already pending
func (cp *CaptureProcessor) QueueCapture(job CaptureJob) bool {
	cp.Mutex.Lock()
	if cp.Pending[job.CaptureRelPath] {
		cp.Mutex.Unlock()
		return false
	}
	cp.Pending[job.CaptureRelPath] = true
	cp.Mutex.Unlock()

	select {
	case cp.JobQueue <- job:
		log.Printf("Queued capture for recognition: %s", job.CaptureRelPath)
		return true
	default:
		log.Printf("WARNING: Capture job queue full. Failed to queue: %s", job.CaptureRelPath)
		cp.Mutex.Lock()
		delete(cp.Pending, job.CaptureRelPath)
		cp.Mutex.Unlock()
		return false
	}
}

func (cp *CaptureProcessor) Stop() {
	log.Println("Stopping capture processor workers...")
	close(cp.StopChan)
	cp.Wg.Wait()
	log.Println("All capture processor workers stopped")
}
