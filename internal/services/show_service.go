package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"slidecast/internal/engine"
	"slidecast/internal/logger"
	"slidecast/internal/models"
)

const recentShowsLimit = 10

var (
	ErrNoShow           = errors.New("no show loaded")
	ErrSlideOutOfRange  = errors.New("slide index out of range")
	ErrInvalidShowFile  = errors.New("invalid show file")
	ErrShowFileNotFound = errors.New("show file not found")
)

// RecentShowStore is the recently opened shows list
type RecentShowStore interface {
	Touch(show models.RecentShow) error
	List(limit int) ([]models.RecentShow, error)
	Remove(path string) error
}

// SourceAdder creates an engine source for a file
type SourceAdder interface {
	AddFile(path string) (engine.Source, error)
}

// SlideChange describes the slide now on air
type SlideChange struct {
	Index int          `json:"index"`
	Slide models.Slide `json:"slide"`
}

// ShowService tracks the open show and drives slide playback
type ShowService struct {
	recent     RecentShowStore
	dispatcher SourceAdder
	events     EventPublisher

	// playMu serializes playback commands from choosing the target slide
	// until the new index is stored
	playMu  sync.Mutex
	mu      sync.RWMutex
	current *models.Show
	index   int
	watcher *fsnotify.Watcher
}

// NewShowService creates a show service. events may be nil.
func NewShowService(recent RecentShowStore, dispatcher SourceAdder, events EventPublisher) *ShowService {
	return &ShowService{
		recent:     recent,
		dispatcher: dispatcher,
		events:     events,
		index:      -1,
	}
}

// LoadShow reads a show file. Relative slide paths resolve against the
// show file's directory.
func LoadShow(path string) (*models.Show, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve show path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrShowFileNotFound, absPath)
		}
		return nil, fmt.Errorf("failed to read show file: %w", err)
	}

	var file models.ShowFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShowFile, err)
	}

	name := strings.TrimSpace(file.Name)
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(absPath), filepath.Ext(absPath))
	}

	show := &models.Show{
		Name:   name,
		Path:   absPath,
		Slides: make([]models.Slide, 0, len(file.Slides)),
	}
	baseDir := filepath.Dir(absPath)
	for i, slide := range file.Slides {
		if strings.TrimSpace(slide.FilePath) == "" {
			return nil, fmt.Errorf("%w: slide %d has no filePath", ErrInvalidShowFile, i)
		}
		if !filepath.IsAbs(slide.FilePath) {
			slide.FilePath = filepath.Join(baseDir, slide.FilePath)
		}
		if slide.Name == "" {
			slide.Name = filepath.Base(slide.FilePath)
		}
		show.Slides = append(show.Slides, slide)
	}

	return show, nil
}

// RecentShows returns the recently opened shows, newest first
func (s *ShowService) RecentShows() ([]models.RecentShow, error) {
	return s.recent.List(recentShowsLimit)
}

// Open loads the show at path, makes it current and watches it for edits
func (s *ShowService) Open(path string) (*models.Show, error) {
	show, err := LoadShow(path)
	if err != nil {
		if errors.Is(err, ErrShowFileNotFound) {
			missing := path
			if absPath, absErr := filepath.Abs(path); absErr == nil {
				missing = absPath
			}
			if removeErr := s.recent.Remove(missing); removeErr == nil {
				logger.Log.Info().Str("path", missing).Msg("removed missing show from recent list")
			}
		}
		return nil, err
	}

	if err := s.recent.Touch(models.RecentShow{Path: show.Path, Name: show.Name}); err != nil {
		logger.Log.Warn().Err(err).Str("path", show.Path).Msg("failed to update recent shows")
	}

	watcher, err := s.watch(show.Path)
	if err != nil {
		logger.Log.Warn().Err(err).Str("path", show.Path).Msg("show file will not be reloaded on change")
	}

	s.mu.Lock()
	if s.watcher != nil {
		s.watcher.Close()
	}
	s.watcher = watcher
	s.current = show
	s.index = -1
	s.mu.Unlock()

	logger.Log.Info().Str("path", show.Path).Int("slides", len(show.Slides)).Msg("show opened")
	s.publish(Event{Type: EventShowOpened, Data: show})
	return show, nil
}

// Current returns a copy of the open show, or nil
func (s *ShowService) Current() *models.Show {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	show := *s.current
	show.Slides = append([]models.Slide(nil), s.current.Slides...)
	return &show
}

// Slides returns the open show's slides, or an empty list
func (s *ShowService) Slides() []models.Slide {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return []models.Slide{}
	}
	return append([]models.Slide{}, s.current.Slides...)
}

// Slide returns the slide at index
func (s *ShowService) Slide(index int) (models.Slide, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.Slide{}, ErrNoShow
	}
	if index < 0 || index >= len(s.current.Slides) {
		return models.Slide{}, ErrSlideOutOfRange
	}
	return s.current.Slides[index], nil
}

// CurrentIndex returns the index of the slide on air, -1 before the first
func (s *ShowService) CurrentIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Select puts the slide at index on air
func (s *ShowService) Select(index int) (SlideChange, error) {
	s.playMu.Lock()
	defer s.playMu.Unlock()
	return s.selectLocked(index)
}

// Next advances to the following slide
func (s *ShowService) Next() (SlideChange, error) {
	s.playMu.Lock()
	defer s.playMu.Unlock()
	return s.selectLocked(s.CurrentIndex() + 1)
}

// Previous goes back one slide
func (s *ShowService) Previous() (SlideChange, error) {
	s.playMu.Lock()
	defer s.playMu.Unlock()
	return s.selectLocked(s.CurrentIndex() - 1)
}

// selectLocked must be called with playMu held
func (s *ShowService) selectLocked(index int) (SlideChange, error) {
	slide, err := s.Slide(index)
	if err != nil {
		return SlideChange{}, err
	}

	if _, err := s.dispatcher.AddFile(slide.FilePath); err != nil {
		return SlideChange{}, fmt.Errorf("failed to show slide %d: %w", index, err)
	}

	s.mu.Lock()
	s.index = index
	s.mu.Unlock()

	change := SlideChange{Index: index, Slide: slide}
	s.publish(Event{Type: EventSlideChanged, Data: change})
	return change, nil
}

// Close stops watching the show file
func (s *ShowService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watcher == nil {
		return nil
	}
	err := s.watcher.Close()
	s.watcher = nil
	return err
}

// watch observes the show file's directory; editors often replace the file
// with a rename, which a watch on the file itself would miss.
func (s *ShowService) watch(path string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	go s.watchLoop(watcher, path)
	return watcher, nil
}

func (s *ShowService) watchLoop(watcher *fsnotify.Watcher, path string) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				s.reload(watcher, path)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Log.Warn().Err(err).Str("path", path).Msg("show watcher error")
		}
	}
}

func (s *ShowService) reload(watcher *fsnotify.Watcher, path string) {
	show, err := LoadShow(path)
	if err != nil {
		// Half-written files are common mid-save; the next write retries.
		logger.Log.Debug().Err(err).Str("path", path).Msg("show reload skipped")
		return
	}

	s.mu.Lock()
	if s.watcher != watcher || s.current == nil || s.current.Path != path {
		s.mu.Unlock()
		return
	}
	s.current = show
	if s.index >= len(show.Slides) {
		s.index = len(show.Slides) - 1
	}
	slides := append([]models.Slide{}, show.Slides...)
	s.mu.Unlock()

	logger.Log.Info().Str("path", path).Int("slides", len(slides)).Msg("show reloaded")
	s.publish(Event{Type: EventSlidesChanged, Data: slides})
}

func (s *ShowService) publish(event Event) {
	if s.events != nil {
		s.events.Publish(event)
	}
}
