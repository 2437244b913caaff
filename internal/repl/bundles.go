package repl

// Bundle is a named set of reminders added together.
type Bundle struct {
	Name  string
	Items []string
}

// Bundles are offered by /bundle in this order.
var Bundles = []Bundle{
	{
		Name: "Здоровье и фитнес",
		Items: []string{
			"Выпить воды",
			"Размяться",
			"Сделать дыхательные упражнения",
			"Сходить на прогулку",
		},
	},
	{
		Name: "Работа и продуктивность",
		Items: []string{
			"Сделать перерыв",
			"Проверить почту",
			"Написать список дел",
			"Проверить социальные сети",
		},
	},
	{
		Name: "Личные дела",
		Items: []string{
			"Позвонить другу",
			"Принять лекарства",
			"Уделить время хобби",
			"Отправить сообщение семье",
		},
	},
	{
		Name: "Утренняя рутина",
		Items: []string{
			"Подъём",
			"Выпить три стакана воды",
			"Принять таблетки",
			"Позавтракать",
			"Сделать спорт 10 минут",
			"Сделать холодную ванну 10 минут",
			"Убрать квартиру 10 минут",
			"Покормить кошку",
			"Медитация 10 минут",
			"Выход на работу",
		},
	},
	{
		Name: "Дневная рутина",
		Items: []string{
			"Сделать перерыв",
			"Выпить воды",
			"Размяться",
			"Проверить почту",
		},
	},
}

// QuickList is the initial /quick list. Additions made with "/quick +"
// live only for the session.
var QuickList = []string{
	"Выпить воды",
	"Сделать перерыв",
	"Размяться",
	"Проверить почту",
	"Позвонить другу",
	"Принять лекарства",
	"Проверить социальные сети",
	"Сделать дыхательные упражнения",
	"Написать список дел",
	"Сходить на прогулку",
	"Подъём",
	"Выпить три стакана воды",
	"Принять таблетки",
	"Позавтракать",
	"Сделать спорт 10 минут",
	"Сделать холодную ванну 10 минут",
	"Убрать квартиру 10 минут",
	"Покормить кошку",
	"Медитация 10 минут",
	"Выход на работу",
}

func bundleNames() []string {
	names := make([]string, len(Bundles))
	for i, b := range Bundles {
		names[i] = b.Name
	}
	return names
}
