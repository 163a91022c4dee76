package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Оптимизатор бандла
	OptInfo             Code = 1000
	OptBundleError      Code = 1001
	OptBundleWarning    Code = 1002
	OptOptimizerFailure Code = 1003

	// Стили и режимы
	StyInfo           Code = 2000
	StyMissingForMode Code = 2001

	// Ввод-вывод
	IOInfo Code = 3000
	// 3001 не используется: ошибки записи артефактов возвращаются как error
	IOReadStyle     Code = 3002
	IOStaleArtifact Code = 3003
)

var codeDescription = map[Code]string{
	UnknownCode:         "Unknown error",
	OptInfo:             "Optimizer information",
	OptBundleError:      "Bundle optimization error",
	OptBundleWarning:    "Bundle optimization warning",
	OptOptimizerFailure: "Optimizer failed to run",
	StyInfo:             "Style information",
	StyMissingForMode:   "Style payload missing for declared mode",
	IOInfo:              "I/O information",
	IOReadStyle:         "Failed to read stylesheet",
	IOStaleArtifact:     "Failed to remove stale artifact",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("OPT%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("STY%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
