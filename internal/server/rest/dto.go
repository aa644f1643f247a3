package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/dmitrijs2005/stylish/internal/common"
	"github.com/dmitrijs2005/stylish/internal/server/models"
	"github.com/dmitrijs2005/stylish/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type registerRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6,max=72"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (r *registerRequest) trimSpace() { r.Email = strings.TrimSpace(r.Email) }

func (r *loginRequest) trimSpace() { r.Email = strings.TrimSpace(r.Email) }

// trimmedRequest is a body whose fields are trimmed before the binding tags run.
type trimmedRequest interface {
	trimSpace()
}

// bindTrimmedJSON decodes the body and trims it before validating.
func bindTrimmedJSON(c *gin.Context, req trimmedRequest) error {
	if c.Request == nil || c.Request.Body == nil {
		return errors.New("invalid request")
	}
	if err := json.NewDecoder(c.Request.Body).Decode(req); err != nil {
		return err
	}
	req.trimSpace()
	return binding.Validator.ValidateStruct(req)
}

// lineItemRequest keeps numbers as pointers so the recorder can tell a
// missing field from zero. Checks live in the service.
type lineItemRequest struct {
	ProductID    string   `json:"productId"`
	ProductName  string   `json:"productName"`
	Quantity     *float64 `json:"quantity"`
	PricePerItem *float64 `json:"pricePerItem"`
}

type recordPurchaseRequest struct {
	Products        []lineItemRequest `json:"products"`
	TotalAmount     *float64          `json:"totalAmount"`
	ShippingAddress *string           `json:"shippingAddress"`
}

func (r recordPurchaseRequest) input() services.RecordPurchaseInput {
	items := make([]services.LineItemInput, 0, len(r.Products))
	for _, p := range r.Products {
		items = append(items, services.LineItemInput{
			ProductID:    p.ProductID,
			ProductName:  p.ProductName,
			Quantity:     p.Quantity,
			PricePerItem: p.PricePerItem,
		})
	}
	return services.RecordPurchaseInput{
		Products:        items,
		TotalAmount:     r.TotalAmount,
		ShippingAddress: r.ShippingAddress,
	}
}

type registerResponse struct {
	Message string          `json:"message"`
	User    models.Identity `json:"user"`
}

type loginResponse struct {
	Message string          `json:"message"`
	Token   string          `json:"token"`
	User    models.Identity `json:"user"`
}

type purchaseResponse struct {
	Message  string           `json:"message"`
	Purchase *models.Purchase `json:"purchase"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp,omitempty"`
}

var registerTagNames sync.Once

// useJSONFieldNames makes validator report fields by their JSON name.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindError converts a ShouldBindJSON failure into a validation error
// naming the first offending field.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: request body is not valid JSON", common.ErrValidation)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", common.ErrValidation, fe.Field())
	case "email":
		return fmt.Errorf("%w: %s must be a valid email address", common.ErrValidation, fe.Field())
	case "min":
		return fmt.Errorf("%w: %s must be at least %s characters", common.ErrValidation, fe.Field(), fe.Param())
	case "max":
		return fmt.Errorf("%w: %s must be at most %s characters", common.ErrValidation, fe.Field(), fe.Param())
	default:
		return fmt.Errorf("%w: %s is invalid", common.ErrValidation, fe.Field())
	}
}
