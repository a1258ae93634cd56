package conv

import (
	"fmt"
	"strings"

	"kinobot/core/telegram/format"
)

const (
	textWelcome  = "🎬 Добро пожаловать! Выберите действие из меню:"
	textMainMenu = "🎬 Главное меню. Выберите действие:"

	textEnterCode    = "🔍 Введите код фильма/аниме/дорамы:"
	textCodeNotFound = "❌ По этому коду ничего не найдено. Проверьте код и попробуйте ещё раз."
	textPickEpisode  = "🎞️ Выберите эпизод:"
	textComingSoon   = "📺 Эпизоды скоро будут добавлены!"

	textPartnersHeader = "👥 *Наши партнёры:*"
	textNoPartners     = "👥 Партнёров пока нет."

	textHelp = "ℹ️ *Помощь*\n\n" +
		"1. Нажмите «Найти фильм/аниме/дораму по коду»\n" +
		"2. Введите код из видео\n" +
		"3. Получите название и ссылки на эпизоды\n\n" +
		"Если код не находится, проверьте его написание."

	textAdminMenu            = "🛠 *Админ-панель*\n\nВыберите действие:"
	textEnterMovieCode       = "📝 Введите код записи:"
	textEnterMovieTitle      = "🎬 Введите название:"
	textEnterMoviePoster     = "🖼 Отправьте постер (file_id или ссылку):"
	textEnterMovieEpisodes   = "🎞 Отправьте ссылки на эпизоды через запятую:"
	textMovieAdded           = "✅ Запись добавлена!"
	textEnterDeleteCode      = "🗑 Введите код записи для удаления:"
	textMovieDeleted         = "✅ Запись удалена."
	textMovieNotFoundDelete  = "❌ Запись с таким кодом не найдена."
	textEnterPartnerLink     = "🤝 Отправьте username партнёра (например, @channel):"
	textPartnerAdded         = "✅ Партнёр добавлен!"
	textPartnerDeleted       = "✅ Партнёр удалён"
	textAccessDenied         = "❌ У вас нет доступа к админ-панели."
	textManagePartnersHeader = "🤝 *Управление партнёрами*\n\nТекущие партнёры:"
	textManagePartnersEmpty  = "_Партнёров пока нет_"
)

func subscriptionText(partners []string, first bool) string {
	lines := make([]string, 0, len(partners))
	for i := range partners {
		lines = append(lines, fmt.Sprintf("Партнёр %d", i+1))
	}
	header := "📢 Сначала подпишись на всех партнёров:"
	if first {
		header = "📢 Чтобы пользоваться ботом, подпишись на всех партнёров:"
	}
	return header + "\n\n" + strings.Join(lines, "\n") +
		"\n\nПосле подписки нажми кнопку \"✅ Проверить подписку\""
}

func entryTitleText(title string) string {
	return fmt.Sprintf("🎬 *%s*", format.EscapeMarkdown(title))
}

func managePartnersText(partners []string) string {
	text := textManagePartnersHeader
	if len(partners) == 0 {
		return text + "\n" + textManagePartnersEmpty
	}
	for _, p := range partners {
		text += "\n• " + p
	}
	return text
}

func statisticsText(movies, partners int) string {
	return fmt.Sprintf("📊 *Статистика*\n\n🎬 Записей: %d\n🤝 Партнёров: %d", movies, partners)
}
