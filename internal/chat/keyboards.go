package chat

import "github.com/playperu/jurybot/internal/festival"

func settingsKeyboard() [][]Button {
	return [][]Button{
		{{"⚖️ Numero Giudici", cbSetJudges}, {"⚙️ Password", cbSetPasswords}},
		{{"🖼️ Immagine Home", cbSetHomePicture}},
		{{"🗑 Chiudi", cbCloseKeyboard}},
	}
}

func limitKeyboard() [][]Button {
	return [][]Button{
		{{"👥 Giuria Popolare", cbLimitPopular}, {"🗣 Giuria Tecnica", cbLimitTechnical}},
		{{"🔙 Indietro", cbBackToMain}},
	}
}

func passwordKeyboard() [][]Button {
	return [][]Button{
		{{"1️⃣ Password Giuria Popolare", cbPassPopular}},
		{{"2️⃣ Password Giuria Tecnica", cbPassTechnical}},
		{{"3️⃣ Password Owner", cbPassOwner}},
		{{"🔙 Indietro", cbBackToMain}},
	}
}

func backKeyboard(data string) [][]Button {
	return [][]Button{{{"🔙 Indietro", data}}}
}

func rosterKeyboard() [][]Button {
	return [][]Button{
		{{"➕ Aggiungi Artista", cbAddArtist}},
		{{"➖ Rimuovi Artista", cbRemoveArtist}},
		{{"✖️ Annulla", cbCancelArtists}},
	}
}

// votingKeyboard lays out one button per artist, two per row, keyed by the
// artist key, followed by the stop button.
func votingKeyboard(artists []festival.Artist) [][]Button {
	var rows [][]Button
	var row []Button
	for _, a := range artists {
		row = append(row, Button{a.Name, a.Key})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if row != nil {
		rows = append(rows, row)
	}
	return append(rows, []Button{{"🛑 Interrompi votazioni", cbStopVoting}})
}

func removeKeyboard(artists []festival.Artist) [][]Button {
	rows := make([][]Button, 0, len(artists)+1)
	for _, a := range artists {
		rows = append(rows, []Button{{a.Name, prefixRemove + a.Key}})
	}
	return append(rows, []Button{{"✖️ Annulla", cbCancelArtists}})
}

func categoryKeyboard() [][]Button {
	return [][]Button{{
		{festival.CategoryYoungTalents, prefixCategory + "giovani_promesse"},
		{festival.CategoryDream, prefixCategory + "sogno_nel_cassetto"},
	}}
}
