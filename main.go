// Йоу, чат! Сьогодні ми будемо розбирати як створити воксельний рендерер!
// Це клієнтська частина - вона малює світ з чанків прямо на GPU через OpenGL.
// Ліцензія AGPL - наш код відкритий, і всі модифікації теж мають бути відкритими.
// Це важливо для спільноти, щоб всі могли вчитися і покращувати код!

// Пакет main - це точка входу нашої програми, звідси все починається!
package main

import (
	// flag - пакет для роботи з командним рядком, використовуємо для налаштувань
	"flag"
	// runtime потрібен щоб прив'язати рендеринг до одного потоку ОС
	"runtime"
	// debug дозволяє отримати інформацію про збірку програми
	"runtime/debug"
	// strings потрібен для форматування помилок конфігу
	"strings"

	// toml - крутий формат для конфігів, як JSON але читабельніший
	"github.com/BurntSushi/toml"
	// uuid - генеруємо унікальний ідентифікатор для кожного запуску
	"github.com/google/uuid"
	// zap - мегашвидкий логер, набагато швидший за fmt.Printf
	"go.uber.org/zap"

	// Наше ігрове ядро - тут вся магія відбувається!
	"FlowyCraft/game"
)

// isDebug - флаг який можна включити при запуску через -debug
// В дебаг режимі буде більше логів і інформації для розробки
var isDebug = flag.Bool("debug", false, "Enable debug log output")

// init виконується до main
// OpenGL вимагає щоб всі виклики йшли з одного потоку ОС,
// тому прив'язуємо головну горутину до потоку одразу
func init() {
	runtime.LockOSThread()
}

func main() {
	// Парсимо командний рядок - шукаємо наш флаг -debug
	flag.Parse()

	// Створюємо логер - він буде записувати все що відбувається в рендерері
	// В дебаг режимі логи будуть детальніші, але повільніші
	// В продакшені логи оптимізовані для швидкодії
	var logger *zap.Logger
	if *isDebug {
		logger = unwrap(zap.NewDevelopment())
	} else {
		logger = unwrap(zap.NewProduction())
	}

	// defer - це магія Go, цей код виконається коли функція закінчиться
	// Тут ми скидаємо буфер логів на диск
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	// Кожен запуск отримує свій ідентифікатор сесії
	// Він потрапляє в логи і у фрейм-трейс, щоб можна було зіставити файли
	session := uuid.New()

	logger.Info("Renderer start", zap.String("session", session.String()))
	printBuildInfo(logger)
	defer logger.Info("Renderer exit")

	// Читаємо налаштування з файлу config.toml
	// Там зберігається розмір вікна, дальність прогрузки, FOV і т.д.
	config, err := readConfig()
	if err != nil {
		logger.Error("Read config fail", zap.Error(err))
		return
	}

	// Створюємо гру: вікно, OpenGL, камеру, світ і генератор чанків
	// Якщо щось з цього не піднялось - всередині буде log.Fatal,
	// бо рендерер без шейдерів чи текстур не має сенсу
	g := game.NewGame(logger, config, session)

	// Запускаємо головний цикл кадрів
	// Він крутиться поки користувач не закриє вікно
	g.Run()
}

// printBuildInfo виводить інформацію про збірку
// Це допомагає знайти проблеми з версіями бібліотек
func printBuildInfo(logger *zap.Logger) {
	binaryInfo, _ := debug.ReadBuildInfo()
	settings := make(map[string]string)
	for _, v := range binaryInfo.Settings {
		settings[v.Key] = v.Value
	}
	logger.Debug("Build info", zap.Any("settings", settings))
}

// readConfig читає конфіг з файлу
// Використовуємо TOML формат - він як INI але потужніший
// Якщо знайдемо невідомі налаштування - повернемо помилку
func readConfig() (game.Config, error) {
	var c game.Config
	meta, err := toml.DecodeFile("config.toml", &c)
	if err != nil {
		return game.Config{}, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		var err errUnknownConfig
		for _, key := range undecoded {
			err = append(err, key.String())
		}
		return game.Config{}, err
	}

	return c, nil
}

// errUnknownConfig - це список невідомих налаштувань
// Коли знаходимо щось чого не очікували в конфігу
type errUnknownConfig []string

func (e errUnknownConfig) Error() string {
	return "unknown config keys: [" + strings.Join(e, ", ") + "]"
}

// unwrap - хелпер функція яка спрощує обробку помилок
// Якщо є помилка - відразу панікуємо
func unwrap[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
