package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/H4ZEY86/Opure-Nexus-sub003/pkg/logx"

	"go.uber.org/zap"
)

func encode(body any, w http.ResponseWriter) {
	response, err := json.Marshal(body)
	if err != nil {
		logx.Logger.Error(err.Error(), zap.String("desc", "could not marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")

	_, err = w.Write(response)
	if err != nil {
		logx.Logger.Error(err.Error(), zap.String("desc", "could not write response"))
		return
	}
}
