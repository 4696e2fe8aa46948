package generator

import "fmt"

const (
	missingKeyMessage      = "API Key is missing. Please check your environment configuration."
	serviceFallbackMessage = "Failed to generate UI."
)

// ConfigurationError は認証情報が設定されていないことを表します。
// ネットワーク呼び出しの前に返されます。
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// ServiceError は生成サービスの呼び出しが失敗したことを表します。
type ServiceError struct {
	Err error
}

func (e *ServiceError) Error() string {
	if e.Err == nil || e.Err.Error() == "" {
		return serviceFallbackMessage
	}
	return e.Err.Error()
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// EmptyResponseError はサービスが使えるテキストを返さなかったことを表します。
type EmptyResponseError struct {
	FinishReason string
}

func (e *EmptyResponseError) Error() string {
	if e.FinishReason != "" {
		return fmt.Sprintf("The model returned no usable markup (finish reason: %s).", e.FinishReason)
	}
	return "The model returned no usable markup."
}
