package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/yourusername/techspec-bot/internal/domain/constants"
	"github.com/yourusername/techspec-bot/internal/domain/entity"
	"github.com/yourusername/techspec-bot/internal/domain/repository"
	"github.com/yourusername/techspec-bot/pkg/logger"
	"github.com/yourusername/techspec-bot/pkg/money"
)

// AppState primary screen
type AppState string

const (
	StateSelectingDevice         AppState = "selecting_device"
	StateEnteringPrompt          AppState = "entering_prompt"
	StateLoading                 AppState = "loading"
	StateShowingConfig           AppState = "showing_config"
	StateEnteringAdvisorCriteria AppState = "entering_advisor_criteria"
	StateShowingAdvisorResult    AppState = "showing_advisor_result"
)

// AppView overlay that does not discard the primary state
type AppView string

const (
	ViewMain        AppView = "main"
	ViewSavedBuilds AppView = "saved_builds"
)

// ImageRefresh ticket for one image regeneration. Only the latest issued ticket may patch the image.
type ImageRefresh struct {
	Seq     uint64
	Request entity.ImageRequest
}

// SessionView read-only copy of a session for rendering
type SessionView struct {
	State           AppState
	View            AppView
	DeviceType      entity.DeviceType
	Configuration   *entity.CustomConfiguration
	AdvisorResult   *entity.AdvisorResult
	AdvisorDraft    entity.AdvisorCriteria
	Error           error
	ImageError      error
	ImageLoading    bool
	User            *entity.User
	SavedBuilds     []*entity.CustomConfiguration
	TutorialVisible bool
	TutorialStep    int
	Currency        money.Currency
}

// Session application state machine for one user.
// All transitions happen under mu; AI calls run with mu released.
type Session struct {
	mu          sync.Mutex
	ownerID     int64
	ai          repository.AIRepository
	persistence *Persistence

	state         AppState
	view          AppView
	deviceType    entity.DeviceType
	configuration *entity.CustomConfiguration
	advisorResult *entity.AdvisorResult
	advisorDraft  entity.AdvisorCriteria

	err          error // blocking overlay, must be dismissed
	imageErr     error
	imageLoading bool
	imageSeq     uint64
	epoch        uint64 // bumped on reset so late generation results are dropped

	user            *entity.User
	savedBuilds     []*entity.CustomConfiguration
	tutorialVisible bool
	tutorialStep    int
	currency        money.Currency
}

// NewSession builds a session from already loaded persisted state.
func NewSession(ownerID int64, ai repository.AIRepository, persistence *Persistence, stored PersistedState) *Session {
	return &Session{
		ownerID:         ownerID,
		ai:              ai,
		persistence:     persistence,
		state:           StateSelectingDevice,
		view:            ViewMain,
		user:            stored.User,
		savedBuilds:     stored.SavedBuilds,
		tutorialVisible: !stored.TutorialCompleted,
		currency:        money.USD,
	}
}

// View snapshot for rendering
func (s *Session) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := SessionView{
		State:           s.state,
		View:            s.view,
		DeviceType:      s.deviceType,
		Configuration:   s.configuration.Clone(),
		AdvisorDraft:    s.advisorDraft,
		Error:           s.err,
		ImageError:      s.imageErr,
		ImageLoading:    s.imageLoading,
		TutorialVisible: s.tutorialVisible && s.state == StateSelectingDevice,
		TutorialStep:    s.tutorialStep,
		Currency:        s.currency,
	}
	if s.advisorResult != nil {
		r := *s.advisorResult
		v.AdvisorResult = &r
	}
	if s.user != nil {
		u := *s.user
		v.User = &u
	}
	v.SavedBuilds = make([]*entity.CustomConfiguration, 0, len(s.savedBuilds))
	for _, b := range s.savedBuilds {
		v.SavedBuilds = append(v.SavedBuilds, b.Clone())
	}
	return v
}

// Error blocking error overlay, nil when none is shown
func (s *Session) Error() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// State current primary state
func (s *Session) State() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SelectDevice chooses the device to build and moves to prompt entry.
func (s *Session) SelectDevice(deviceType entity.DeviceType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkIdleLocked(); err != nil {
		return err
	}
	if _, ok := entity.ParseDeviceType(string(deviceType)); !ok {
		return fmt.Errorf("%w: %q", entity.ErrNoDeviceType, deviceType)
	}
	s.deviceType = deviceType
	s.state = StateEnteringPrompt
	s.view = ViewMain
	return nil
}

// SelectHero generates the preset "value flagship" phone.
func (s *Session) SelectHero(ctx context.Context) error {
	s.mu.Lock()
	if err := s.checkIdleLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.deviceType = entity.DevicePhone
	s.mu.Unlock()

	return s.Generate(ctx, constants.HeroPrompt)
}

// SelectAdvisor opens the market advisor form.
func (s *Session) SelectAdvisor() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkIdleLocked(); err != nil {
		return err
	}
	s.state = StateEnteringAdvisorCriteria
	s.view = ViewMain
	s.advisorDraft = entity.AdvisorCriteria{
		DeviceType: entity.DevicePhone,
		PriceRange: constants.AdvisorPriceRanges[0],
	}
	return nil
}

// SetAdvisorDevice updates the advisor form.
func (s *Session) SetAdvisorDevice(deviceType entity.DeviceType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateEnteringAdvisorCriteria {
		return entity.ErrInvalidState
	}
	if _, ok := entity.ParseDeviceType(string(deviceType)); !ok {
		return fmt.Errorf("%w: %q", entity.ErrNoDeviceType, deviceType)
	}
	s.advisorDraft.DeviceType = deviceType
	return nil
}

// SetAdvisorPriceRange updates the advisor form.
func (s *Session) SetAdvisorPriceRange(priceRange string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateEnteringAdvisorCriteria {
		return entity.ErrInvalidState
	}
	if !isKnownPriceRange(priceRange) {
		return fmt.Errorf("unknown price range %q", priceRange)
	}
	s.advisorDraft.PriceRange = priceRange
	return nil
}

// Generate asks the AI gateway for a configuration. On failure the error overlay is raised
// and the user goes back to prompt entry.
func (s *Session) Generate(ctx context.Context, prompt string) error {
	s.mu.Lock()
	if s.state == StateLoading {
		s.mu.Unlock()
		return entity.ErrBusy
	}
	if s.err != nil {
		s.mu.Unlock()
		return entity.ErrInvalidState
	}
	if s.deviceType == "" {
		s.mu.Unlock()
		return entity.ErrNoDeviceType
	}
	deviceType := s.deviceType
	epoch := s.epoch
	s.state = StateLoading
	s.view = ViewMain
	s.err = nil
	s.configuration = nil
	s.mu.Unlock()

	cfg, genErr := s.ai.GenerateConfiguration(ctx, prompt, deviceType)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		logger.InfoLogger.Printf("owner=%d: generation result dropped after reset", s.ownerID)
		return nil
	}
	if genErr != nil {
		s.err = asGenerationError(genErr)
		s.state = StateEnteringPrompt
		logger.ErrorLogger.Printf("❌ owner=%d: %v", s.ownerID, s.err)
		return s.err
	}
	if cfg == nil {
		s.err = &entity.GenerationError{Reason: "empty configuration"}
		s.state = StateEnteringPrompt
		logger.ErrorLogger.Printf("❌ owner=%d: %v", s.ownerID, s.err)
		return s.err
	}
	cfg.DeviceType = deviceType
	s.configuration = cfg
	s.imageErr = nil
	s.imageLoading = false
	s.imageSeq++
	s.state = StateShowingConfig
	return nil
}

// FindDevice runs the market advisor with the current form (priorities supplied here).
func (s *Session) FindDevice(ctx context.Context, priorities string) error {
	s.mu.Lock()
	if s.state == StateLoading {
		s.mu.Unlock()
		return entity.ErrBusy
	}
	if s.state != StateEnteringAdvisorCriteria || s.err != nil {
		s.mu.Unlock()
		return entity.ErrInvalidState
	}
	criteria := s.advisorDraft
	criteria.Priorities = strings.TrimSpace(priorities)
	epoch := s.epoch
	s.state = StateLoading
	s.view = ViewMain
	s.err = nil
	s.advisorResult = nil
	s.mu.Unlock()

	result, advErr := s.ai.FindBestMarketDevice(ctx, criteria)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return nil
	}
	if advErr == nil && result == nil {
		advErr = &entity.AdvisorError{Reason: "empty recommendation"}
	}
	if advErr != nil {
		s.err = asAdvisorError(advErr)
		s.state = StateSelectingDevice
		logger.ErrorLogger.Printf("❌ owner=%d: %v", s.ownerID, s.err)
		return s.err
	}
	s.advisorResult = result
	s.state = StateShowingAdvisorResult
	return nil
}

// DismissError closes the blocking error overlay. The state was already moved back to
// prompt entry (device chosen) or device selection when the error was raised.
func (s *Session) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.err = nil
	if s.state == StateEnteringPrompt && s.deviceType == "" {
		s.state = StateSelectingDevice
	}
}

// StartOver full reset back to device selection.
func (s *Session) StartOver() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.state = StateSelectingDevice
	s.view = ViewMain
	s.deviceType = ""
	s.configuration = nil
	s.advisorResult = nil
	s.advisorDraft = entity.AdvisorCriteria{}
	s.err = nil
	s.imageErr = nil
	s.imageLoading = false
	s.imageSeq++
	s.epoch++
}

// SignIn simulated sign-in ("Google" or "Apple").
func (s *Session) SignIn(ctx context.Context, provider string) error {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider != "google" && provider != "apple" {
		return fmt.Errorf("unsupported sign-in provider %q", provider)
	}
	user := &entity.User{Name: "Demo User", Email: "demo@" + provider + ".com"}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persistence.SaveUser(ctx, s.ownerID, user); err != nil {
		return err
	}
	s.user = user
	return nil
}

// SignOut forgets the identity and resets the app.
func (s *Session) SignOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persistence.SaveUser(ctx, s.ownerID, nil); err != nil {
		return err
	}
	s.user = nil
	s.resetLocked()
	return nil
}

// SaveBuild stores the current configuration newest-first, replacing a build with the same name.
func (s *Session) SaveBuild(ctx context.Context) (*entity.CustomConfiguration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.configuration == nil {
		return nil, entity.ErrNoConfiguration
	}
	if s.user == nil {
		return nil, entity.ErrNotSignedIn
	}

	saved := s.configuration.Clone()
	saved.TotalPrice = saved.Total()

	builds := make([]*entity.CustomConfiguration, 0, len(s.savedBuilds)+1)
	builds = append(builds, saved)
	for _, b := range s.savedBuilds {
		if b.DeviceName != saved.DeviceName {
			builds = append(builds, b)
		}
	}
	if err := s.persistence.SaveBuilds(ctx, s.ownerID, builds); err != nil {
		return nil, err
	}
	s.savedBuilds = builds
	return saved.Clone(), nil
}

// LoadBuild opens a saved build by name.
func (s *Session) LoadBuild(deviceName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkIdleLocked(); err != nil {
		return err
	}
	build := s.findBuildLocked(deviceName)
	if build == nil {
		return fmt.Errorf("%w: %q", entity.ErrBuildNotFound, deviceName)
	}
	cfg := build.Clone()
	cfg.DeviceType = cfg.ResolveDeviceType()

	s.configuration = cfg
	s.deviceType = cfg.DeviceType
	s.advisorResult = nil
	s.err = nil
	s.imageErr = nil
	s.imageLoading = false
	s.imageSeq++
	s.state = StateShowingConfig
	s.view = ViewMain
	return nil
}

// ShowSavedBuilds switches to the builds library without touching the primary state.
func (s *Session) ShowSavedBuilds() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = ViewSavedBuilds
}

// ShowMain back from the builds library
func (s *Session) ShowMain() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = ViewMain
}

// RenameDevice edits the display label of the current configuration.
func (s *Session) RenameDevice(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.configuration == nil {
		return entity.ErrNoConfiguration
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return entity.ErrEmptyName
	}
	next := s.configuration.Clone()
	next.DeviceName = name
	s.configuration = next
	return nil
}

// SelectOption applies one component option immediately. When the component is visual, a
// ticket is returned; the caller renders first, then passes the ticket to RefreshImage.
func (s *Session) SelectOption(componentName, selection string) (*ImageRefresh, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateShowingConfig || s.configuration == nil {
		return nil, entity.ErrNoConfiguration
	}
	comp, _ := s.configuration.Component(componentName)
	if comp == nil {
		return nil, fmt.Errorf("%w: %q", entity.ErrUnknownComponent, componentName)
	}
	var chosen *entity.CustomizationOption
	for i := range comp.Options {
		if comp.Options[i].Selection == selection {
			opt := comp.Options[i]
			chosen = &opt
			break
		}
	}
	if chosen == nil {
		return nil, fmt.Errorf("%w: %q", entity.ErrUnknownOption, selection)
	}

	next, err := ApplyOptionSelection(s.configuration, componentName, *chosen)
	if err != nil {
		return nil, err
	}
	s.configuration = next
	s.imageErr = nil

	if !IsDesignComponent(componentName) || s.deviceType == "" {
		return nil, nil
	}
	s.imageSeq++
	s.imageLoading = true
	return &ImageRefresh{
		Seq: s.imageSeq,
		Request: entity.ImageRequest{
			Configuration: next.Clone(),
			DeviceType:    s.deviceType,
		},
	}, nil
}

// RefreshImage performs the regeneration for a ticket. Superseded tickets return
// entity.ErrStaleImage and change nothing; failures keep the previous image.
func (s *Session) RefreshImage(ctx context.Context, ticket *ImageRefresh) error {
	if ticket == nil {
		return nil
	}
	url, imgErr := s.ai.GenerateDeviceImage(ctx, ticket.Request)

	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket.Seq != s.imageSeq {
		return entity.ErrStaleImage
	}
	s.imageLoading = false
	if imgErr != nil {
		s.imageErr = asImageError(imgErr)
		logger.ErrorLogger.Printf("⚠️ owner=%d: %v", s.ownerID, s.imageErr)
		return s.imageErr
	}
	if s.configuration != nil {
		next := s.configuration.Clone()
		next.ImageURL = url
		s.configuration = next
	}
	return nil
}

// AbandonImage clears the loading flag for a ticket whose regeneration never ran.
// Superseded tickets are ignored.
func (s *Session) AbandonImage(ticket *ImageRefresh) {
	if ticket == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket.Seq == s.imageSeq {
		s.imageLoading = false
	}
}

// ClearImageError dismisses the inline image banner.
func (s *Session) ClearImageError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.imageErr = nil
}

// CompareWith diffs the current configuration against a saved build.
func (s *Session) CompareWith(deviceName string) (ComparisonView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.configuration == nil {
		return ComparisonView{}, entity.ErrNoConfiguration
	}
	other := s.findBuildLocked(deviceName)
	if other == nil {
		return ComparisonView{}, fmt.Errorf("%w: %q", entity.ErrBuildNotFound, deviceName)
	}
	return Compare(s.configuration, other), nil
}

// SetCurrency display currency for prices
func (s *Session) SetCurrency(c money.Currency) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currency = c
}

// NextTutorialStep advances onboarding; finishing the last step completes it.
func (s *Session) NextTutorialStep(ctx context.Context) error {
	s.mu.Lock()
	if s.tutorialStep < len(constants.TutorialSteps)-1 {
		s.tutorialStep++
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()
	return s.SkipTutorial(ctx)
}

// SkipTutorial hides onboarding for good.
func (s *Session) SkipTutorial(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tutorialVisible = false
	if err := s.persistence.MarkTutorialCompleted(ctx, s.ownerID); err != nil {
		return err
	}
	return nil
}

func (s *Session) checkIdleLocked() error {
	if s.state == StateLoading {
		return entity.ErrBusy
	}
	if s.err != nil {
		return entity.ErrInvalidState
	}
	return nil
}

func (s *Session) findBuildLocked(deviceName string) *entity.CustomConfiguration {
	for _, b := range s.savedBuilds {
		if b.DeviceName == deviceName {
			return b
		}
	}
	return nil
}

func isKnownPriceRange(r string) bool {
	for _, known := range constants.AdvisorPriceRanges {
		if known == r {
			return true
		}
	}
	return false
}

func asGenerationError(err error) error {
	var genErr *entity.GenerationError
	if errors.As(err, &genErr) {
		return genErr
	}
	return &entity.GenerationError{Err: err}
}

func asAdvisorError(err error) error {
	var advErr *entity.AdvisorError
	if errors.As(err, &advErr) {
		return advErr
	}
	return &entity.AdvisorError{Err: err}
}

func asImageError(err error) error {
	var imgErr *entity.ImageGenerationError
	if errors.As(err, &imgErr) {
		return imgErr
	}
	return &entity.ImageGenerationError{Err: err}
}
