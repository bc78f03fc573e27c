package model

import "fmt"

// Product — внешняя карточка продукта, используется только для привязки изображений.
type Product struct {
	GlobalID   int64  `json:"globalId"`
	ModuleID   string `json:"moduleID"`
	ModuleName string `json:"moduleName"`
}

// Label is the text shown in product pickers.
func (p Product) Label() string {
	return fmt.Sprintf("%s - %s", p.ModuleID, p.ModuleName)
}
