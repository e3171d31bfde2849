package cadengine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// =============================================================================
// Client — CAD转换引擎客户端
// 封装外部cad-engine微服务：STEP/IGES → STL网格转换与健康检查
// =============================================================================

// 转换失败类别
const (
	ErrCodeStepRead = "STEP_READ"
	ErrCodeMeshing  = "MESHING"
	ErrCodeStlWrite = "STL_WRITE"
)

// ConversionError 转换失败，带引擎侧错误类别
type ConversionError struct {
	Code    string
	Message string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("CAD转换失败[%s]: %s", e.Code, e.Message)
}

// Client CAD引擎客户端
type Client struct {
	baseURL           string
	linearDeflection  float64 // 网格线性偏差，0.001-1.0
	angularDeflection float64 // 网格角度偏差，0.1-1.0
	httpClient        *http.Client
}

// NewClient 创建CAD引擎客户端
func NewClient(baseURL string, timeout time.Duration, linearDeflection, angularDeflection float64) *Client {
	if linearDeflection <= 0 {
		linearDeflection = 0.1
	}
	if angularDeflection <= 0 {
		angularDeflection = 0.5
	}
	return &Client{
		baseURL:           strings.TrimRight(baseURL, "/"),
		linearDeflection:  linearDeflection,
		angularDeflection: angularDeflection,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// HealthStatus 引擎健康状态
type HealthStatus struct {
	Status       string   `json:"status"`
	OpenCascade  string   `json:"opencascade"`
	Capabilities []string `json:"capabilities"`
}

// Health 引擎健康检查
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("CAD引擎不可达: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CAD引擎健康检查失败: HTTP %d", resp.StatusCode)
	}
	var status HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("解析健康检查响应失败: %w", err)
	}
	return &status, nil
}

// SupportedExt 判断扩展名是否可转换（.step/.stp/.iges/.igs）
func SupportedExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".step", ".stp", ".iges", ".igs":
		return true
	}
	return false
}

// ConvertToSTL 上传STEP/IGES文件并返回二进制STL内容。
// 引擎按multipart接收文件，转换参数随客户端配置以查询参数传递。
func (c *Client) ConvertToSTL(ctx context.Context, filename string, content io.Reader) ([]byte, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("读取上传文件失败: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/convert/step-to-stl?linear_deflection=%g&angular_deflection=%g",
		c.baseURL, c.linearDeflection, c.angularDeflection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("CAD引擎请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.decodeError(resp)
	}
	stl, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取STL响应失败: %w", err)
	}
	return stl, nil
}

func (c *Client) decodeError(resp *http.Response) error {
	var payload struct {
		Detail string `json:"detail"`
		Code   string `json:"code"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(data, &payload)

	msg := payload.Detail
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	code := payload.Code
	if code == "" {
		// 引擎老版本只回detail文本，按关键字归类
		switch {
		case strings.Contains(msg, "read"), strings.Contains(msg, "STEP"):
			code = ErrCodeStepRead
		case strings.Contains(msg, "mesh"):
			code = ErrCodeMeshing
		default:
			code = ErrCodeStlWrite
		}
	}
	return &ConversionError{Code: code, Message: msg}
}
