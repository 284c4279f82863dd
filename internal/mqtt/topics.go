package mqtt

import "fmt"

func TopicAnalysisRequests(prefix string) string {
	return fmt.Sprintf("%s/analysis/request/+", prefix)
}

func TopicAnalysisRequest(prefix, requestID string) string {
	return fmt.Sprintf("%s/analysis/request/%s", prefix, requestID)
}

func TopicAnalysisResult(prefix, requestID string) string {
	return fmt.Sprintf("%s/analysis/result/%s", prefix, requestID)
}
