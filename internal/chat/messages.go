package chat

import (
	"fmt"
	"strconv"

	"github.com/playperu/jurybot/internal/festival"
)

const (
	msgWelcome = "🎤 Benvenuto al Festival!\n\n" +
		"Se fai parte della giuria digita la password che ti è stata fornita per entrare nell'apposito portale e dare il tuo contributo."
	msgAlreadyAuthenticated = "⏸️ Sei già autenticato. Se desideri effettuare una nuova autenticazione, premi /logout."
	msgInvalidPassword      = "⚠️ Password non valida! Riprova."
	msgOwnersFull           = "⚠️ È stato raggiunto il limite di proprietari! Attendi che qualcuno effettui il logout."
	msgLoggedOut            = "🆓 Hai effettuato il logout. Usa /start per reinserire la password."
	msgCancelled            = "Operazione annullata."
	msgCancelledStart       = "Operazione annullata. Usa /start per riprovare."
	msgNotAuthorized        = "Non sei autorizzato ad eseguire questo comando."
	msgUnknownCommand       = "Comando non riconosciuto."
	msgUseStart             = "Usa /start per iniziare."
	msgOwnerHint            = "Usa /votazioni per aprire le votazioni, /set per le impostazioni e /artisti per gestire gli artisti."

	msgNoActiveArtist = "Nessun artista selezionato, attendi che il proprietario lo scelga."
	msgInvalidVote    = "❌ Inserisci un numero valido per il voto."
	msgPopularThanks  = "Grazie per il tuo voto!"
	msgPopularDup     = "🔚 Hai già votato per questo artista!"
	msgTechnicalDup   = "🔚 Hai già votato per questo artista in questo ambito!"
	msgPopularRange   = "#️⃣ Il voto deve essere compreso tra 1 e 10. Riprova."

	msgVotingMenu   = "Che le votazioni abbiano inizio!\n\nPremi sul nome dell'artista per il quale vuoi che venga espresso il voto della giuria."
	msgNoArtists    = "Non ci sono artisti in gara. Usa /artisti per aggiungerli."
	msgArtistAbsent = "Artista non trovato."
	msgResetDone    = "✅ I dati sono stati eliminati."

	msgSettingsMenu   = "ℹ️ Seleziona l'impostazione che vuoi modificare:"
	msgLimitMenu      = "🛃 Seleziona il tipo di giuria per cui impostare il numero di giudici:"
	msgPasswordMenu   = "🛃 Seleziona la password che vuoi modificare:"
	msgSendHome       = "🖼️ Invia la nuova immagine di benvenuto che vuoi impostare."
	msgHomeUpdated    = "✅ Immagine di benvenuto aggiornata con successo!"
	msgUploadFailed   = "Si è verificato un errore durante il caricamento. Riprova."
	msgSendPhoto      = "Per favore, invia una foto valida."
	msgInvalidNumber  = "Inserisci un numero valido."
	msgInvalidSecret  = "La password non può essere vuota né superare i 72 caratteri. Riprova."
	msgPickSetting    = "Seleziona prima un'impostazione dal menu."
	msgRosterMenu     = "Seleziona l'azione da eseguire:"
	msgNothingRemove  = "Non ci sono artisti da rimuovere."
	msgPickRemove     = "Seleziona l'artista da rimuovere:"
	msgAskName        = "🔤 Inserisci il nome dell'artista:"
	msgEmptyName      = "Il nome non può essere vuoto. Riprova:"
	msgAskAge         = "🔢 Inserisci l'età dell'artista:"
	msgInvalidAge     = "L'età deve essere un numero intero. Riprova:"
	msgAskPhoto       = "🎦 Invia la foto dell'artista (oppure scrivi \"salta\"):"
	msgPhotoUploadErr = "Si è verificato un errore durante il caricamento dell'immagine. Riprova."
	msgAskSong        = "🎵 Inserisci il titolo della canzone."
	msgAskCategory    = "Seleziona la categoria dell'artista:"
	msgGenericError   = "Si è verificato un errore. Riprova."

	skipPhoto = "salta"
)

// Callback data understood by the dispatcher.
const (
	cbStopVoting      = "stop_voting"
	cbSetJudges       = "set_judges"
	cbSetPasswords    = "set_passwords"
	cbSetHomePicture  = "set_home_picture"
	cbCloseKeyboard   = "close_keyboard"
	cbLimitPopular    = "set_limit_popular"
	cbLimitTechnical  = "set_limit_technical"
	cbPassPopular     = "set_pass_popular"
	cbPassTechnical   = "set_pass_technical"
	cbPassOwner       = "set_pass_owner"
	cbBackToMain      = "back_to_main_menu"
	cbBackToLimits    = "back_to_limit_menu"
	cbBackToPasswords = "back_to_password_menu"
	cbAddArtist       = "add_artist"
	cbRemoveArtist    = "remove_artist"
	cbCancelArtists   = "cancel_artists"

	prefixRemove   = "rm_"
	prefixCategory = "category_"
)

// categorySlugs maps category button data to categories.
var categorySlugs = map[string]string{
	prefixCategory + "giovani_promesse":   festival.CategoryYoungTalents,
	prefixCategory + "sogno_nel_cassetto": festival.CategoryDream,
}

func juryLabel(j festival.JuryType) string {
	if j == festival.JuryTechnical {
		return "tecnica"
	}
	return "popolare"
}

func roleLabel(r festival.Role) string {
	switch r {
	case festival.RolePopular:
		return "giuria popolare"
	case festival.RoleTechnical:
		return "giuria tecnica"
	}
	return "owner"
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func welcomePopular(name string) string {
	return fmt.Sprintf("Benvenuto nel portale della Giuria Popolare, %s!\n\n"+
		"Qui avrai la possibilità di esprimere le tue preferenze sugli artisti con un voto che va da 1 a 10.\n\n"+
		"Attendi che ti venga mostrato il profilo dell'artista per esprimere il tuo voto.", name)
}

func welcomeTechnical(name string) string {
	return fmt.Sprintf("Benvenuto nel portale della Giuria Tecnica, %s!\n\n"+
		"La tua voce conta e il tuo contributo è fondamentale per rendere giusta ogni decisione.\n\n"+
		"Attendi che ti venga mostrato il profilo dell'artista per esprimere il tuo voto per ogni ambito.", name)
}

func welcomeOwner(name string) string {
	return fmt.Sprintf("Benvenuto %s!\n\n"+
		"Da qui potrai gestire tutto ciò che riguarda le votazioni del Festival:\n\n"+
		"- /set imposta il numero massimo di giudici, le password e l'immagine di benvenuto.\n"+
		"- /artisti aggiunge o rimuove gli artisti che verranno votati dalla giuria.\n"+
		"- /votazioni mostra la tastiera con tutti gli artisti; premendo su un nome si aprono le votazioni per quell'artista.\n"+
		"- /reset elimina voti e giurie.\n\n"+
		"In bocca al lupo e buon festival!", name)
}

func juryFull(j festival.JuryType) string {
	return fmt.Sprintf("⚠️ È stato raggiunto il limite di componenti della giuria %s!", juryLabel(j))
}

func askAspect(aspect string) string {
	return fmt.Sprintf("🔽 Esprimi il tuo voto per la categoria %s.", aspect)
}

func technicalRange(aspect string) string {
	return fmt.Sprintf("#️⃣ Il voto per la categoria %s deve essere compreso tra 1 e 10. Riprova.", aspect)
}

func technicalThanks(mean float64) string {
	return fmt.Sprintf("🆒 Grazie per il tuo voto! La media dei voti è: %.2f", mean)
}

func votingOpened(name string) string {
	return fmt.Sprintf("🔜 Cominciano le votazioni per %s", name)
}

func artistProfile(a festival.Artist) string {
	return fmt.Sprintf("Nome: %s\nEtà: %d\nCanzone: %s", a.Name, a.Age, a.Song)
}

func limitPrompt(j festival.JuryType) string {
	return fmt.Sprintf("🛃 Inserisci il nuovo limite per la giuria %s (0 per nessun limite):", juryLabel(j))
}

func limitSet(j festival.JuryType, n int) string {
	if n == 0 {
		return fmt.Sprintf("✅ Limite per la giuria %s rimosso.", juryLabel(j))
	}
	return fmt.Sprintf("✅ Limite per la giuria %s impostato a %d.", juryLabel(j), n)
}

func passwordPrompt(r festival.Role) string {
	return fmt.Sprintf("🛃 Inserisci la nuova password per %s:", roleLabel(r))
}

func passwordSet(r festival.Role) string {
	return fmt.Sprintf("✅ Nuova password per %s impostata correttamente.", roleLabel(r))
}

func artistAdded(a festival.Artist) string {
	return fmt.Sprintf("✅ Artista %s aggiunto con successo nella categoria %s.", a.Name, a.Category)
}

func artistRemoved(a festival.Artist) string {
	return fmt.Sprintf("❎ Artista %s rimosso con successo.", a.Name)
}
