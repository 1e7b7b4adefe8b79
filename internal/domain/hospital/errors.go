package hospital

import "errors"

var (
	ErrHospitalNotFound      = errors.New("hospital not found")
	ErrHospitalAlreadyExists = errors.New("hospital with this name already exists")
)
