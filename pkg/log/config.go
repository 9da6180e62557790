package log

// NewProductionConfig 운영(Production) 환경에 최적화된 로그 설정을 반환합니다.
func NewProductionConfig(appName string) Options {
	return Options{
		Name:              appName,
		MaxAge:            30,
		EnableCriticalLog: true,
		EnableVerboseLog:  true,
		EnableConsoleLog:  false,
		ReportCaller:      true,
		CallerPathPrefix:  "github.com/giftdeum",
	}
}

// NewDevelopmentConfig 개발(Development) 환경에 최적화된 로그 설정을 반환합니다.
func NewDevelopmentConfig(appName string) Options {
	return Options{
		Name:              appName,
		MaxAge:            1,
		EnableCriticalLog: false,
		EnableVerboseLog:  false,
		EnableConsoleLog:  true,
		ReportCaller:      true,
		CallerPathPrefix:  "github.com/giftdeum",
	}
}
