package bot

import (
	"kinobot/core/logger"
	tghelpers "kinobot/core/telegram/helpers"
	"kinobot/core/telegram/keyboard"
	"kinobot/internal/conv"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

func markupFor(rows [][]conv.Button) *tele.ReplyMarkup {
	if len(rows) == 0 {
		return nil
	}
	kb := make([][]keyboard.InlineBtn, len(rows))
	for i, row := range rows {
		r := make([]keyboard.InlineBtn, len(row))
		for j, b := range row {
			r[j] = keyboard.InlineBtn{Text: b.Label, Unique: b.Action, Data: b.Data, URL: b.URL}
		}
		kb[i] = r
	}
	return keyboard.InlineButtonsRows(kb...)
}

// execute applies render instructions to the transport. The first text
// render of a button press edits the originating message in place;
// everything after becomes a new message. Photo delivery failures
// degrade to a text send with the same caption.
func execute(c tele.Context, renders []conv.Render) error {
	edited := false
	for _, r := range renders {
		if r.Toast != "" {
			if c.Callback() != nil {
				if err := c.Respond(&tele.CallbackResponse{Text: r.Toast, ShowAlert: r.Alert}); err != nil {
					return err
				}
			} else if err := tghelpers.SendText(c, r.Toast); err != nil {
				return err
			}
			continue
		}

		markup := markupFor(r.Keyboard)

		if r.Photo != "" {
			if err := tghelpers.SendPhoto(c, r.Photo, r.Text); err != nil {
				logger.Warn(tghelpers.BuildContext(c), "tg", "photo.fallback",
					slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
				)
				if err := tghelpers.SendMD(c, r.Text, markup); err != nil {
					return err
				}
			}
			continue
		}

		if r.Text == "" {
			continue
		}
		if c.Callback() != nil && !edited {
			edited = true
			if err := tghelpers.EditOrSendMD(c, r.Text, markup); err != nil {
				return err
			}
			continue
		}
		if err := tghelpers.SendMD(c, r.Text, markup); err != nil {
			return err
		}
	}
	return nil
}
