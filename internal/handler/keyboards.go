package handler

// Reply keyboard texts
const (
	btnDictionary = "Словарь"
	btnProfile    = "Профиль"
	btnRepeat     = "Повторение слов"
	btnGrammar    = "Грамматика"
	btnAddTopic   = "Добавить тему"
	btnAddWords   = "Добавить слова"
	btnBack       = "🔙Назад"
	btnCancel     = "Отменить действие"
	btnStopRepeat = "Прекратить повтор"
)

const (
	msgMainMenu     = "🏠 Главное меню\n\nВыберите действие:"
	msgCommandInput = "Команды здесь не подходят. Введите текст или нажмите «" + btnCancel + "»."
	msgEmptyInput   = "Сообщение пустое. Введите текст или нажмите «" + btnCancel + "»."
	msgTopicMissing = "Тема не найдена"
)

func mainMenu() [][]string {
	return [][]string{
		{btnDictionary, btnProfile},
		{btnRepeat, btnGrammar},
	}
}

func dictionaryMenu() [][]string {
	return [][]string{
		{btnAddTopic, btnAddWords},
		{btnBack},
	}
}

func cancelMenu() [][]string {
	return [][]string{{btnCancel}}
}

func drillMenu() [][]string {
	return [][]string{{btnStopRepeat}}
}
