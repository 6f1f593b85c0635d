package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPesapalBaseURL(t *testing.T) {
	conf := &Config{}

	conf.Pesapal.Environment = PesapalSandbox
	assert.Equal(t, pesapalSandboxURL, conf.PesapalBaseURL())

	conf.Pesapal.Environment = PesapalLive
	assert.Equal(t, pesapalLiveURL, conf.PesapalBaseURL())

	conf.Pesapal.BaseURL = "http://127.0.0.1:8080"
	assert.Equal(t, "http://127.0.0.1:8080", conf.PesapalBaseURL())
}
