package providers

import (
	"fmt"
	"minedash/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid configuration: %s", v.Errors.Error())
	}
	if c.conf.Storage.Driver == "mysql" && (c.conf.MySQL.Host == "" || c.conf.MySQL.DBName == "") {
		return fmt.Errorf("invalid configuration: mysql storage requires mysql.host and mysql.dbName")
	}
	return nil
}
