package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"malaria-http-service/config"
	"malaria-http-service/models"
)

// 事件主题常量
const (
	// 诊断结果事件主题
	TopicDiagnosisResult = "clinic/diagnosis/result"

	// 报告打印事件主题
	TopicReportPrinted = "clinic/report/printed"
)

// InterfaceEventService 定义诊所事件总线服务接口
type InterfaceEventService interface {
	Connect() error
	Disconnect()
	PublishDiagnosis(insurance string, verdict *models.Verdict)
	PublishReportPrinted(patientID uint, printed bool)
}

// EventService 通过MQTT向诊所其他系统广播诊断与打印事件。
// Broker 未配置或连接断开时发布静默跳过，事件总线不在关键路径上。
type EventService struct {
	Config         *config.Config
	Client         mqtt.Client
	IsConnected    bool
	connectedMutex sync.RWMutex
	PublishMutex   sync.Mutex
}

// 事件消息结构
type (
	// DiagnosisEvent 诊断完成事件
	DiagnosisEvent struct {
		Insurance string  `json:"insurance,omitempty"`
		Label     string  `json:"label"`
		Score     float32 `json:"score"`
		Timestamp int64   `json:"timestamp"`
	}

	// ReportPrintedEvent 报告打印事件
	ReportPrintedEvent struct {
		PatientID uint  `json:"patient_id"`
		Printed   bool  `json:"printed"`
		Timestamp int64 `json:"timestamp"`
	}
)

// NewEventService 创建一个新的事件总线服务
func NewEventService(cfg *config.Config) *EventService {
	return &EventService{Config: cfg}
}

// Connect 连接MQTT服务器。Broker为空时直接跳过
func (s *EventService) Connect() error {
	if s.Config.MQTTBroker == "" {
		config.Info("未配置MQTT Broker，事件总线已禁用")
		return nil
	}

	opts := mqtt.NewClientOptions().
		AddBroker(s.Config.MQTTBroker).
		SetClientID(s.Config.MQTTClientID).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true).
		SetOnConnectHandler(func(mqtt.Client) {
			s.setConnected(true)
			config.Info("MQTT事件总线已连接: %s", s.Config.MQTTBroker)
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			s.setConnected(false)
			config.Warning("MQTT事件总线连接断开: %v", err)
		})

	s.Client = mqtt.NewClient(opts)
	token := s.Client.Connect()
	if !token.WaitTimeout(5*time.Second) || token.Error() != nil {
		return fmt.Errorf("连接MQTT服务器失败: %v", token.Error())
	}
	s.setConnected(true)
	return nil
}

// Disconnect 断开MQTT连接
func (s *EventService) Disconnect() {
	if s.Client != nil && s.Client.IsConnected() {
		s.Client.Disconnect(250)
	}
	s.setConnected(false)
}

// PublishDiagnosis 发布诊断完成事件
func (s *EventService) PublishDiagnosis(insurance string, verdict *models.Verdict) {
	if verdict == nil {
		return
	}
	s.publish(TopicDiagnosisResult, DiagnosisEvent{
		Insurance: insurance,
		Label:     verdict.Label,
		Score:     verdict.Score,
		Timestamp: time.Now().UnixMilli(),
	})
}

// PublishReportPrinted 发布报告打印事件
func (s *EventService) PublishReportPrinted(patientID uint, printed bool) {
	s.publish(TopicReportPrinted, ReportPrintedEvent{
		PatientID: patientID,
		Printed:   printed,
		Timestamp: time.Now().UnixMilli(),
	})
}

// publish 序列化并发布消息，未连接时静默跳过
func (s *EventService) publish(topic string, payload interface{}) {
	if !s.connected() {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		config.Warning("序列化事件消息失败: %v", err)
		return
	}

	s.PublishMutex.Lock()
	defer s.PublishMutex.Unlock()
	token := s.Client.Publish(topic, 0, false, data)
	if !token.WaitTimeout(2 * time.Second) {
		config.Warning("发布事件到 %s 超时", topic)
	} else if token.Error() != nil {
		config.Warning("发布事件到 %s 失败: %v", topic, token.Error())
	}
}

func (s *EventService) connected() bool {
	s.connectedMutex.RLock()
	defer s.connectedMutex.RUnlock()
	return s.IsConnected
}

func (s *EventService) setConnected(v bool) {
	s.connectedMutex.Lock()
	defer s.connectedMutex.Unlock()
	s.IsConnected = v
}
