package store

import (
	platformerrors "stellar-client-go/internal/platform/errors"
)

func errEmptyToken(driver string) error {
	return platformerrors.Storage("credential."+driver+".set", "access token must not be empty", nil)
}

func storageErr(driver, op string, err error) error {
	if err == nil {
		return nil
	}
	return platformerrors.Storage("credential."+driver+"."+op, "credential "+op+" failed", err)
}
