package chat

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"

	"github.com/playperu/jurybot/internal/festival"
	"github.com/playperu/jurybot/internal/voting"
)

// Step is where a chat stands in an owner wizard. Login and voting progress
// live in the voting.Session; steps only track menu navigation.
type Step int

const (
	StepIdle Step = iota
	StepSettingsMenu
	StepSettingsDetail
	StepSettingsValue
	StepHomePicture
	StepRosterChoice
	StepAddName
	StepAddAge
	StepAddPhoto
	StepAddSong
	StepAddCategory
	StepRemove
)

// dialog is the per-chat wizard state.
type dialog struct {
	mu sync.Mutex

	step      Step
	limitJury festival.JuryType
	passRole  festival.Role
	draft     voting.ArtistDraft
}

func (d *dialog) clear() {
	d.step = StepIdle
	d.limitJury = ""
	d.passRole = ""
	d.draft = voting.ArtistDraft{}
}

// turn is one update being handled.
type turn struct {
	u  Update
	c  voting.Caller
	dl *dialog
}

type handler func(ctx context.Context, t *turn) Step

// Dispatcher routes updates through a (step, kind) transition table.
// Commands are handled the same way from every step.
type Dispatcher struct {
	svc       *voting.Service
	messenger Messenger
	logger    *slog.Logger

	mu      sync.Mutex
	dialogs map[int64]*dialog

	table    map[Step]map[Kind]handler
	commands map[string]handler
}

func NewDispatcher(svc *voting.Service, m Messenger, logger *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		svc:       svc,
		messenger: m,
		logger:    logger,
		dialogs:   make(map[int64]*dialog),
	}
	d.commands = map[string]handler{
		"start":     d.cmdStart,
		"logout":    d.cmdLogout,
		"cancel":    d.cmdCancel,
		"set":       d.cmdSettings,
		"artisti":   d.cmdRoster,
		"votazioni": d.cmdVoting,
		"reset":     d.cmdReset,
	}
	d.table = map[Step]map[Kind]handler{
		StepIdle: {
			KindText:     d.onText,
			KindCallback: d.onVotingButton,
		},
		StepSettingsMenu:   {KindCallback: d.onSettingsMenu},
		StepSettingsDetail: {KindCallback: d.onSettingsDetail},
		StepSettingsValue: {
			KindText:     d.onSettingsValue,
			KindCallback: d.onSettingsBack,
		},
		StepHomePicture: {
			KindPhoto: d.onHomePicture,
			KindText:  d.askPhotoAgain,
		},
		StepRosterChoice: {KindCallback: d.onRosterChoice},
		StepAddName:      {KindText: d.onArtistName},
		StepAddAge:       {KindText: d.onArtistAge},
		StepAddPhoto: {
			KindPhoto: d.onArtistPhoto,
			KindText:  d.onArtistPhotoSkip,
		},
		StepAddSong:     {KindText: d.onArtistSong},
		StepAddCategory: {KindCallback: d.onArtistCategory},
		StepRemove:      {KindCallback: d.onRemoveArtist},
	}
	return d
}

// Handle processes one update. Updates from the same chat are serialised;
// a panic is logged and only affects this update.
func (d *Dispatcher) Handle(ctx context.Context, u Update) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("update handler panicked",
				"chat_id", u.ChatID,
				"kind", u.Kind.String(),
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()

	if u.Kind == KindCallback && u.CallbackID != "" {
		if err := d.messenger.Answer(ctx, u.CallbackID); err != nil {
			d.logger.Warn("answering callback", "chat_id", u.ChatID, "error", err)
		}
	}

	dl := d.dialog(u.ChatID)
	dl.mu.Lock()
	defer dl.mu.Unlock()

	t := &turn{u: u, c: voting.Caller{ID: u.ChatID, Name: u.Name}, dl: dl}
	h := d.route(dl.step, u)
	if h == nil {
		d.logger.Debug("update ignored", "chat_id", u.ChatID, "kind", u.Kind.String(), "step", dl.step)
		return
	}
	next := h(ctx, t)
	if next == StepIdle {
		d.dropDraft(ctx, t)
		dl.clear()
		return
	}
	dl.step = next
}

func (d *Dispatcher) route(step Step, u Update) handler {
	if u.Kind == KindCommand {
		if h, ok := d.commands[u.Command]; ok {
			return h
		}
		return d.unknownCommand
	}
	if h, ok := d.table[step][u.Kind]; ok {
		return h
	}
	// Anything a wizard step does not expect is handled as if idle, so the
	// voting buttons keep working from any menu.
	return d.table[StepIdle][u.Kind]
}

func (d *Dispatcher) dialog(id int64) *dialog {
	d.mu.Lock()
	defer d.mu.Unlock()
	dl, ok := d.dialogs[id]
	if !ok {
		dl = &dialog{}
		d.dialogs[id] = dl
	}
	return dl
}

// Step reports the wizard step of a chat.
func (d *Dispatcher) Step(id int64) Step {
	dl := d.dialog(id)
	dl.mu.Lock()
	defer dl.mu.Unlock()
	return dl.step
}

func (d *Dispatcher) send(ctx context.Context, msg Message) {
	if err := d.messenger.Send(ctx, msg); err != nil {
		d.logger.Error("sending message", "chat_id", msg.ChatID, "error", err)
	}
}

func (d *Dispatcher) reply(ctx context.Context, t *turn, text string) {
	d.send(ctx, Message{ChatID: t.u.ChatID, Text: text})
}

func (d *Dispatcher) replyKeyboard(ctx context.Context, t *turn, text string, kb [][]Button) {
	d.send(ctx, Message{ChatID: t.u.ChatID, Text: text, Keyboard: kb})
}

// edit replaces the message the pressed button belongs to, or sends a new
// one when there is none.
func (d *Dispatcher) edit(ctx context.Context, t *turn, text string, kb [][]Button) {
	d.send(ctx, Message{ChatID: t.u.ChatID, Text: text, Keyboard: kb, EditID: t.u.MessageID})
}

// fail reports an unexpected error to the user and keeps the step.
func (d *Dispatcher) fail(ctx context.Context, t *turn, op string, err error) Step {
	if errors.Is(err, festival.ErrNotAuthorized) {
		d.reply(ctx, t, msgNotAuthorized)
		return StepIdle
	}
	d.logger.Error(op, "chat_id", t.u.ChatID, "error", err)
	d.reply(ctx, t, msgGenericError)
	return t.dl.step
}

// Commands.

func (d *Dispatcher) cmdStart(ctx context.Context, t *turn) Step {
	pic, err := d.svc.Start(t.c)
	if errors.Is(err, festival.ErrAlreadyAuthenticated) {
		d.reply(ctx, t, msgAlreadyAuthenticated)
		return t.dl.step
	}
	if pic != "" {
		err := d.messenger.Send(ctx, Message{ChatID: t.u.ChatID, Text: msgWelcome, Photo: pic})
		if err == nil {
			return StepIdle
		}
		d.logger.Error("sending home picture", "chat_id", t.u.ChatID, "url", pic, "error", err)
	}
	d.reply(ctx, t, msgWelcome)
	return StepIdle
}

func (d *Dispatcher) cmdLogout(ctx context.Context, t *turn) Step {
	if err := d.svc.Logout(ctx, t.c); err != nil {
		return d.fail(ctx, t, "logging out", err)
	}
	d.reply(ctx, t, msgLoggedOut)
	return StepIdle
}

func (d *Dispatcher) cmdCancel(ctx context.Context, t *turn) Step {
	if d.svc.Cancel(t.c) == voting.PhaseUnauthenticated {
		d.reply(ctx, t, msgCancelledStart)
	} else {
		d.reply(ctx, t, msgCancelled)
	}
	return StepIdle
}

// dropDraft discards a photo uploaded for an artist that was never added.
func (d *Dispatcher) dropDraft(ctx context.Context, t *turn) {
	if t.dl.draft.Photo != "" {
		d.svc.DiscardPhoto(ctx, t.dl.draft.Photo)
		t.dl.draft.Photo = ""
	}
}

func (d *Dispatcher) cmdSettings(ctx context.Context, t *turn) Step {
	if !d.svc.IsOwner(t.c.ID) {
		d.reply(ctx, t, msgNotAuthorized)
		return t.dl.step
	}
	d.dropDraft(ctx, t)
	d.replyKeyboard(ctx, t, msgSettingsMenu, settingsKeyboard())
	return StepSettingsMenu
}

func (d *Dispatcher) cmdRoster(ctx context.Context, t *turn) Step {
	if !d.svc.IsOwner(t.c.ID) {
		d.reply(ctx, t, msgNotAuthorized)
		return t.dl.step
	}
	d.dropDraft(ctx, t)
	d.replyKeyboard(ctx, t, msgRosterMenu, rosterKeyboard())
	return StepRosterChoice
}

func (d *Dispatcher) cmdVoting(ctx context.Context, t *turn) Step {
	if !d.svc.IsOwner(t.c.ID) {
		d.reply(ctx, t, msgNotAuthorized)
		return t.dl.step
	}
	artists := d.svc.Artists()
	if len(artists) == 0 {
		d.reply(ctx, t, msgNoArtists)
		return t.dl.step
	}
	d.replyKeyboard(ctx, t, msgVotingMenu, votingKeyboard(artists))
	return t.dl.step
}

func (d *Dispatcher) cmdReset(ctx context.Context, t *turn) Step {
	if err := d.svc.Reset(ctx, t.c); err != nil {
		return d.fail(ctx, t, "resetting votes", err)
	}
	d.reply(ctx, t, msgResetDone)
	return t.dl.step
}

func (d *Dispatcher) unknownCommand(ctx context.Context, t *turn) Step {
	d.reply(ctx, t, msgUnknownCommand)
	return t.dl.step
}

// Idle: login and voting.

func (d *Dispatcher) onText(ctx context.Context, t *turn) Step {
	sess, _ := d.svc.Session(t.c.ID)
	switch sess.Phase {
	case voting.PhaseAwaitingCredential:
		d.authenticate(ctx, t)
	case voting.PhaseVoting:
		d.vote(ctx, t)
	case voting.PhaseOwnerMenu:
		d.reply(ctx, t, msgOwnerHint)
	default:
		if d.svc.IsOwner(t.c.ID) {
			d.reply(ctx, t, msgOwnerHint)
		} else {
			d.reply(ctx, t, msgUseStart)
		}
	}
	return t.dl.step
}

func (d *Dispatcher) authenticate(ctx context.Context, t *turn) {
	role, err := d.svc.Authenticate(ctx, t.c, t.u.Text)
	switch {
	case err == nil:
	case errors.Is(err, festival.ErrInvalidCredential):
		d.reply(ctx, t, msgInvalidPassword)
		return
	case errors.Is(err, festival.ErrCapacityExceeded):
		if jury, ok := role.Jury(); ok {
			d.reply(ctx, t, juryFull(jury))
		} else {
			d.reply(ctx, t, msgOwnersFull)
		}
		return
	case errors.Is(err, festival.ErrAlreadyAuthenticated):
		d.reply(ctx, t, msgAlreadyAuthenticated)
		return
	default:
		d.fail(ctx, t, "authenticating", err)
		return
	}

	switch role {
	case festival.RolePopular:
		d.reply(ctx, t, welcomePopular(t.c.Name))
	case festival.RoleTechnical:
		d.reply(ctx, t, welcomeTechnical(t.c.Name))
	case festival.RoleOwner:
		d.reply(ctx, t, welcomeOwner(t.c.Name))
	}
}

func (d *Dispatcher) vote(ctx context.Context, t *turn) {
	r, err := d.svc.SubmitVote(ctx, t.c, t.u.Text)
	technical := r.Jury == festival.JuryTechnical
	switch {
	case err == nil:
	case errors.Is(err, festival.ErrNoActiveArtist):
		d.reply(ctx, t, msgNoActiveArtist)
		return
	case errors.Is(err, festival.ErrInvalidVoteFormat):
		d.reply(ctx, t, msgInvalidVote)
		return
	case errors.Is(err, festival.ErrDuplicateVote):
		if technical {
			d.reply(ctx, t, msgTechnicalDup)
		} else {
			d.reply(ctx, t, msgPopularDup)
		}
		return
	case errors.Is(err, festival.ErrOutOfRange):
		if technical {
			d.reply(ctx, t, technicalRange(r.Aspect))
		} else {
			d.reply(ctx, t, msgPopularRange)
		}
		return
	case errors.Is(err, festival.ErrNotAuthorized):
		d.reply(ctx, t, msgUseStart)
		return
	default:
		d.fail(ctx, t, "submitting vote", err)
		return
	}

	switch {
	case !technical:
		d.reply(ctx, t, msgPopularThanks)
	case r.Complete:
		d.reply(ctx, t, technicalThanks(r.Mean))
	default:
		d.reply(ctx, t, askAspect(r.NextAspect))
	}
}

// onVotingButton handles the artist keyboard sent by /votazioni.
func (d *Dispatcher) onVotingButton(ctx context.Context, t *turn) Step {
	data := t.u.CallbackData
	switch {
	case data == cbStopVoting:
		if _, err := d.svc.StopVoting(ctx, t.c); err != nil {
			return d.fail(ctx, t, "stopping voting", err)
		}
		// The ranking reaches every owner through the notifier.
		return t.dl.step
	case strings.HasPrefix(data, "artist"):
		a, err := d.svc.SelectArtist(ctx, t.c, data)
		if errors.Is(err, festival.ErrArtistNotFound) {
			d.edit(ctx, t, msgArtistAbsent, nil)
			return t.dl.step
		}
		if err != nil {
			return d.fail(ctx, t, "selecting artist", err)
		}
		d.reply(ctx, t, votingOpened(a.Name))
		return t.dl.step
	}
	d.logger.Debug("unexpected callback", "chat_id", t.u.ChatID, "data", data, "step", t.dl.step)
	return t.dl.step
}

// Settings wizard.

func (d *Dispatcher) onSettingsMenu(ctx context.Context, t *turn) Step {
	switch t.u.CallbackData {
	case cbSetJudges:
		d.edit(ctx, t, msgLimitMenu, limitKeyboard())
		return StepSettingsDetail
	case cbSetPasswords:
		d.edit(ctx, t, msgPasswordMenu, passwordKeyboard())
		return StepSettingsDetail
	case cbSetHomePicture:
		d.edit(ctx, t, msgSendHome, nil)
		return StepHomePicture
	case cbCloseKeyboard:
		d.send(ctx, Message{ChatID: t.u.ChatID, DeleteID: t.u.MessageID})
		return StepIdle
	}
	return d.onVotingButton(ctx, t)
}

func (d *Dispatcher) onSettingsDetail(ctx context.Context, t *turn) Step {
	switch data := t.u.CallbackData; data {
	case cbLimitPopular, cbLimitTechnical:
		t.dl.limitJury = festival.JuryPopular
		if data == cbLimitTechnical {
			t.dl.limitJury = festival.JuryTechnical
		}
		t.dl.passRole = ""
		d.edit(ctx, t, limitPrompt(t.dl.limitJury), nil)
		return StepSettingsValue
	case cbPassPopular, cbPassTechnical, cbPassOwner:
		t.dl.passRole = map[string]festival.Role{
			cbPassPopular:   festival.RolePopular,
			cbPassTechnical: festival.RoleTechnical,
			cbPassOwner:     festival.RoleOwner,
		}[data]
		t.dl.limitJury = ""
		d.edit(ctx, t, passwordPrompt(t.dl.passRole), nil)
		return StepSettingsValue
	case cbBackToMain:
		d.edit(ctx, t, msgSettingsMenu, settingsKeyboard())
		return StepSettingsMenu
	}
	return d.onVotingButton(ctx, t)
}

func (d *Dispatcher) onSettingsValue(ctx context.Context, t *turn) Step {
	value := strings.TrimSpace(t.u.Text)
	switch {
	case t.dl.limitJury != "":
		n, err := strconv.Atoi(value)
		if err != nil {
			d.reply(ctx, t, msgInvalidNumber)
			return t.dl.step
		}
		jury := t.dl.limitJury
		if err := d.svc.SetJuryLimit(ctx, t.c, jury, n); err != nil {
			if errors.Is(err, festival.ErrInvalidValue) {
				d.reply(ctx, t, msgInvalidNumber)
				return t.dl.step
			}
			return d.fail(ctx, t, "setting jury limit", err)
		}
		t.dl.limitJury = ""
		d.replyKeyboard(ctx, t, limitSet(jury, n), backKeyboard(cbBackToLimits))
	case t.dl.passRole != "":
		role := t.dl.passRole
		if err := d.svc.SetCredential(ctx, t.c, role, value); err != nil {
			if errors.Is(err, festival.ErrInvalidValue) {
				d.reply(ctx, t, msgInvalidSecret)
				return t.dl.step
			}
			return d.fail(ctx, t, "setting credential", err)
		}
		t.dl.passRole = ""
		d.replyKeyboard(ctx, t, passwordSet(role), backKeyboard(cbBackToPasswords))
	default:
		d.reply(ctx, t, msgPickSetting)
	}
	return t.dl.step
}

func (d *Dispatcher) onSettingsBack(ctx context.Context, t *turn) Step {
	switch t.u.CallbackData {
	case cbBackToLimits:
		d.edit(ctx, t, msgLimitMenu, limitKeyboard())
		return StepSettingsDetail
	case cbBackToPasswords:
		d.edit(ctx, t, msgPasswordMenu, passwordKeyboard())
		return StepSettingsDetail
	}
	return d.onVotingButton(ctx, t)
}

func (d *Dispatcher) onHomePicture(ctx context.Context, t *turn) Step {
	src, err := d.messenger.FileURL(ctx, t.u.PhotoID)
	if err != nil {
		d.logger.Error("resolving photo", "chat_id", t.u.ChatID, "error", err)
		d.reply(ctx, t, msgUploadFailed)
		return t.dl.step
	}
	if _, err := d.svc.SetHomePicture(ctx, t.c, src); err != nil {
		if errors.Is(err, festival.ErrUploadFailed) {
			d.reply(ctx, t, msgUploadFailed)
			return t.dl.step
		}
		return d.fail(ctx, t, "setting home picture", err)
	}
	d.reply(ctx, t, msgHomeUpdated)
	d.replyKeyboard(ctx, t, msgSettingsMenu, settingsKeyboard())
	return StepSettingsMenu
}

func (d *Dispatcher) askPhotoAgain(ctx context.Context, t *turn) Step {
	d.reply(ctx, t, msgSendPhoto)
	return t.dl.step
}

// Roster wizard.

func (d *Dispatcher) onRosterChoice(ctx context.Context, t *turn) Step {
	switch t.u.CallbackData {
	case cbAddArtist:
		t.dl.draft = voting.ArtistDraft{}
		d.edit(ctx, t, msgAskName, nil)
		return StepAddName
	case cbRemoveArtist:
		artists := d.svc.Artists()
		if len(artists) == 0 {
			d.edit(ctx, t, msgNothingRemove, nil)
			return StepIdle
		}
		d.edit(ctx, t, msgPickRemove, removeKeyboard(artists))
		return StepRemove
	case cbCancelArtists:
		d.edit(ctx, t, msgCancelled, nil)
		return StepIdle
	}
	return d.onVotingButton(ctx, t)
}

func (d *Dispatcher) onArtistName(ctx context.Context, t *turn) Step {
	name := strings.TrimSpace(t.u.Text)
	if name == "" {
		d.reply(ctx, t, msgEmptyName)
		return t.dl.step
	}
	t.dl.draft.Name = name
	d.reply(ctx, t, msgAskAge)
	return StepAddAge
}

func (d *Dispatcher) onArtistAge(ctx context.Context, t *turn) Step {
	age, err := strconv.Atoi(strings.TrimSpace(t.u.Text))
	if err != nil || age <= 0 {
		d.reply(ctx, t, msgInvalidAge)
		return t.dl.step
	}
	t.dl.draft.Age = age
	d.reply(ctx, t, msgAskPhoto)
	return StepAddPhoto
}

func (d *Dispatcher) onArtistPhoto(ctx context.Context, t *turn) Step {
	src, err := d.messenger.FileURL(ctx, t.u.PhotoID)
	if err != nil {
		d.logger.Error("resolving photo", "chat_id", t.u.ChatID, "error", err)
		d.reply(ctx, t, msgPhotoUploadErr)
		return t.dl.step
	}
	ref, err := d.svc.UploadArtistPhoto(ctx, t.c, src)
	if err != nil {
		if errors.Is(err, festival.ErrUploadFailed) {
			d.reply(ctx, t, msgPhotoUploadErr)
			return t.dl.step
		}
		return d.fail(ctx, t, "uploading artist photo", err)
	}
	d.dropDraft(ctx, t)
	t.dl.draft.Photo = ref
	d.reply(ctx, t, msgAskSong)
	return StepAddSong
}

func (d *Dispatcher) onArtistPhotoSkip(ctx context.Context, t *turn) Step {
	if !strings.EqualFold(strings.TrimSpace(t.u.Text), skipPhoto) {
		d.reply(ctx, t, msgSendPhoto)
		return t.dl.step
	}
	d.reply(ctx, t, msgAskSong)
	return StepAddSong
}

func (d *Dispatcher) onArtistSong(ctx context.Context, t *turn) Step {
	t.dl.draft.Song = strings.TrimSpace(t.u.Text)
	d.replyKeyboard(ctx, t, msgAskCategory, categoryKeyboard())
	return StepAddCategory
}

func (d *Dispatcher) onArtistCategory(ctx context.Context, t *turn) Step {
	category, ok := categorySlugs[t.u.CallbackData]
	if !ok {
		return d.onVotingButton(ctx, t)
	}
	t.dl.draft.Category = category
	a, err := d.svc.AddArtist(ctx, t.c, t.dl.draft)
	if err != nil {
		if errors.Is(err, festival.ErrNotAuthorized) {
			d.edit(ctx, t, msgNotAuthorized, nil)
			return StepIdle
		}
		d.logger.Error("adding artist", "chat_id", t.u.ChatID, "error", err)
		d.edit(ctx, t, msgGenericError, nil)
		return StepIdle
	}
	// The photo now belongs to the roster.
	t.dl.draft.Photo = ""
	d.edit(ctx, t, artistAdded(a), nil)
	return StepIdle
}

func (d *Dispatcher) onRemoveArtist(ctx context.Context, t *turn) Step {
	data := t.u.CallbackData
	if data == cbCancelArtists {
		d.edit(ctx, t, msgCancelled, nil)
		return StepIdle
	}
	key, ok := strings.CutPrefix(data, prefixRemove)
	if !ok {
		return d.onVotingButton(ctx, t)
	}
	a, err := d.svc.RemoveArtist(ctx, t.c, key)
	switch {
	case errors.Is(err, festival.ErrArtistNotFound):
		d.edit(ctx, t, msgArtistAbsent, nil)
	case errors.Is(err, festival.ErrNotAuthorized):
		d.edit(ctx, t, msgNotAuthorized, nil)
	case err != nil:
		d.logger.Error("removing artist", "chat_id", t.u.ChatID, "error", err)
		d.edit(ctx, t, msgGenericError, nil)
	default:
		d.edit(ctx, t, artistRemoved(a), nil)
	}
	return StepIdle
}
