package api

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/lalith-99/plotgrid/internal/layout"
)

var registerOnce sync.Once

// RegisterValidators adds the celltype and plotstatus tags to gin's binding
// validator. Safe to call more than once.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
			return
		}
		if err = v.RegisterValidation("celltype", func(fl validator.FieldLevel) bool {
			return layout.CellType(fl.Field().String()).Valid()
		}); err != nil {
			return
		}
		err = v.RegisterValidation("plotstatus", func(fl validator.FieldLevel) bool {
			return layout.PlotStatus(fl.Field().String()).Valid()
		})
	})
	return err
}
