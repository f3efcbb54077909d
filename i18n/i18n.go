package i18n

import (
	"log"
	"os"
	"strings"

	"github.com/jeandeaual/go-locale"
)

// EnvLang overrides the detected language.
const EnvLang = "FOCUSTIMER_LANG"

var lang string

var supported = []string{"pt", "es", "ru"}

var translations = map[string]map[string]string{
	"What would you like to focus on?": {
		"pt": "No que você gostaria de focar?",
		"es": "¿En qué te gustaría concentrarte?",
		"ru": "На чём вы хотите сосредоточиться?",
	},
	"Focus:": {
		"pt": "Foco:",
		"es": "Enfoque:",
		"ru": "Фокус:",
	},
	"Start": {
		"pt": "Iniciar",
		"es": "Iniciar",
		"ru": "Старт",
	},
	"Pause": {
		"pt": "Pausar",
		"es": "Pausar",
		"ru": "Пауза",
	},
	"Cancel Task": {
		"pt": "Cancelar tarefa",
		"es": "Cancelar tarea",
		"ru": "Отменить задачу",
	},
	"%s min": {
		"pt": "%s min",
		"es": "%s min",
		"ru": "%s мин",
	},
	"Vibration Failed": {
		"pt": "Falha na vibração",
		"es": "Fallo de vibración",
		"ru": "Ошибка вибрации",
	},
	"Unable to trigger vibration. Please check device settings.": {
		"pt": "Não foi possível vibrar. Verifique as configurações do dispositivo.",
		"es": "No se pudo activar la vibración. Revisa la configuración del dispositivo.",
		"ru": "Не удалось включить вибрацию. Проверьте настройки устройства.",
	},
	"Time is up!": {
		"pt": "O tempo acabou!",
		"es": "¡Se acabó el tiempo!",
		"ru": "Время вышло!",
	},
	"Things we've focused on": {
		"pt": "Coisas em que focamos",
		"es": "Cosas en las que nos enfocamos",
		"ru": "На чём мы сосредотачивались",
	},
	"Clear": {
		"pt": "Limpar",
		"es": "Borrar",
		"ru": "Очистить",
	},
	"completed": {
		"pt": "concluído",
		"es": "completado",
		"ru": "завершено",
	},
	"cancelled": {
		"pt": "cancelado",
		"es": "cancelado",
		"ru": "отменено",
	},
}

func init() {
	// Check for override environment variable
	if forcedLang := strings.TrimSpace(os.Getenv(EnvLang)); forcedLang != "" {
		log.Printf("%s is set to: '%s'", EnvLang, forcedLang)
		lang = match(forcedLang)
		return
	}

	log.Printf("%s is not set, detecting from system locale.", EnvLang)
	userLocales, err := locale.GetLocales()
	if err != nil {
		log.Println("Could not get user locale, defaulting to english")
		lang = "en"
		return
	}

	if len(userLocales) > 0 {
		log.Printf("Detected user locale: %s", userLocales[0])
		lang = match(userLocales[0])
	} else {
		log.Println("No user locale detected, defaulting to english")
		lang = "en"
	}
	log.Printf("Language set to: %s", lang)
}

func match(userLocale string) string {
	for _, l := range supported {
		if strings.HasPrefix(userLocale, l) {
			return l
		}
	}
	return "en"
}

// SetLang switches the language. An empty value keeps the current one; the
// environment override always wins.
func SetLang(l string) {
	if l == "" || os.Getenv(EnvLang) != "" {
		return
	}
	lang = match(l)
}

func T(key string) string {
	if translated, ok := translations[key][lang]; ok {
		return translated
	}
	return key
}

// GetLang returns the active language code.
func GetLang() string {
	return lang
}
