package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type RedeemVoucherRequest struct {
	Code string `json:"code"`
}

func (req *RedeemVoucherRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Code, validation.Required, validation.Length(1, 100)),
	)
}
