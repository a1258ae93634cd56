package conv

import (
	"fmt"
	"strings"
)

// Callback action keys routed back through event dispatch.
const (
	ActionSearchContent       = "search_content"
	ActionShowPartners        = "show_partners"
	ActionShowHelp            = "show_help"
	ActionBackToMenu          = "back_to_menu"
	ActionCheckSubscription   = "check_subscription"
	ActionAdminMenu           = "admin_menu"
	ActionAdminAddMovie       = "admin_add_movie"
	ActionAdminDeleteMovie    = "admin_delete_movie"
	ActionAdminManagePartners = "admin_manage_partners"
	ActionAdminStatistics     = "admin_statistics"
	ActionAddPartner          = "add_partner"
	ActionDeletePartner       = "delete_partner"
)

func mainMenuKeyboard() [][]Button {
	return [][]Button{
		{{Label: "🔍 Найти фильм/аниме/дораму по коду", Action: ActionSearchContent}},
		{{Label: "👥 Партнёры", Action: ActionShowPartners}},
		{{Label: "ℹ️ Помощь", Action: ActionShowHelp}},
	}
}

func backToMenuKeyboard() [][]Button {
	return [][]Button{
		{{Label: "🔙 Назад", Action: ActionBackToMenu}},
	}
}

func partnerURL(handle string) string {
	return "https://t.me/" + strings.ReplaceAll(handle, "@", "")
}

// subscriptionKeyboard lists numbered partner links followed by the
// "check subscription" affordance.
func subscriptionKeyboard(partners []string) [][]Button {
	rows := make([][]Button, 0, len(partners)+1)
	for i, p := range partners {
		rows = append(rows, []Button{{
			Label: fmt.Sprintf("Партнёр %d", i+1),
			URL:   partnerURL(p),
		}})
	}
	rows = append(rows, []Button{{Label: "✅ Проверить подписку", Action: ActionCheckSubscription}})
	return rows
}

func partnersListKeyboard(partners []string) [][]Button {
	rows := make([][]Button, 0, len(partners)+1)
	for i, p := range partners {
		rows = append(rows, []Button{{
			Label: fmt.Sprintf("Партнёр %d", i+1),
			URL:   partnerURL(p),
		}})
	}
	rows = append(rows, []Button{{Label: "🔙 Назад", Action: ActionBackToMenu}})
	return rows
}

func episodesKeyboard(episodes []string) [][]Button {
	rows := make([][]Button, 0, len(episodes)+1)
	for i, url := range episodes {
		rows = append(rows, []Button{{
			Label: fmt.Sprintf("▶ Эпизод %d", i+1),
			URL:   url,
		}})
	}
	rows = append(rows, []Button{{Label: "🔙 Назад", Action: ActionBackToMenu}})
	return rows
}

func adminMenuKeyboard() [][]Button {
	return [][]Button{
		{{Label: "➕ Добавить запись", Action: ActionAdminAddMovie}},
		{{Label: "❌ Удалить запись", Action: ActionAdminDeleteMovie}},
		{{Label: "🤝 Управление партнёрами", Action: ActionAdminManagePartners}},
		{{Label: "📊 Статистика", Action: ActionAdminStatistics}},
	}
}

func partnersManagementKeyboard(partners []string) [][]Button {
	rows := make([][]Button, 0, len(partners)+2)
	for _, p := range partners {
		rows = append(rows, []Button{{
			Label:  "❌ " + p,
			Action: ActionDeletePartner,
			Data:   p,
		}})
	}
	rows = append(rows, []Button{{Label: "➕ Добавить партнёра", Action: ActionAddPartner}})
	rows = append(rows, []Button{{Label: "🔙 Назад", Action: ActionAdminMenu}})
	return rows
}
