/*
Copyright © 2020 Marvin

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/oradba/pdbtoolkit/common"
)

// 程序配置文件
type Config struct {
	AppConfig    AppConfig      `toml:"app" json:"app"`
	SourceConfig EndpointConfig `toml:"source" json:"source"`
	TargetConfig EndpointConfig `toml:"target" json:"target"`
	LogConfig    LogConfig      `toml:"log" json:"log"`
}

type AppConfig struct {
	ReportDir   string `toml:"report-dir" json:"report-dir"`
	OpenBrowser bool   `toml:"open-browser" json:"open-browser"`
	PprofPort   string `toml:"pprof-port" json:"pprof-port"`
}

// 数据库端点配置，source/target 共用
// auth-mode = EXTERNAL 时走操作系统外部认证，tns-alias 优先于 host/port
type EndpointConfig struct {
	AuthMode      string   `toml:"auth-mode" json:"auth-mode"`
	TNSAlias      string   `toml:"tns-alias" json:"tns-alias"`
	Host          string   `toml:"host" json:"host"`
	Port          int      `toml:"port" json:"port"`
	CDBName       string   `toml:"cdb-name" json:"cdb-name"`
	PDBName       string   `toml:"pdb-name" json:"pdb-name"`
	Username      string   `toml:"username" json:"username"`
	Password      string   `toml:"password" json:"-"`
	LibDir        string   `toml:"lib-dir" json:"lib-dir"`
	Timezone      string   `toml:"timezone" json:"timezone"`
	SessionParams []string `toml:"session-params" json:"session-params"`
}

type LogConfig struct {
	LogLevel   string `toml:"log-level" json:"log-level"`
	LogFile    string `toml:"log-file" json:"log-file"`
	MaxSize    int    `toml:"max-size" json:"max-size"`
	MaxDays    int    `toml:"max-days" json:"max-days"`
	MaxBackups int    `toml:"max-backups" json:"max-backups"`
}

// 读取配置文件
func ReadConfigFile(file string) (*Config, error) {
	cfg := &Config{}
	if err := cfg.configFromFile(file); err != nil {
		return cfg, err
	}
	if err := cfg.adjustAndValidate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// 加载配置文件并解析
func (c *Config) configFromFile(file string) error {
	if _, err := toml.DecodeFile(file, c); err != nil {
		return fmt.Errorf("failed decode toml config file %s: %v", file, err)
	}
	return nil
}

func (c *Config) adjustAndValidate() error {
	if c.AppConfig.ReportDir == "" {
		c.AppConfig.ReportDir = "outputs"
	}
	if c.AppConfig.PprofPort == "" {
		c.AppConfig.PprofPort = ":9696"
	}
	if c.LogConfig.LogFile == "" {
		c.LogConfig.LogFile = "pdbtoolkit.log"
	}
	for name, ep := range map[string]*EndpointConfig{"source": &c.SourceConfig, "target": &c.TargetConfig} {
		if ep.AuthMode == "" {
			ep.AuthMode = common.AuthModeExternal
		}
		ep.AuthMode = common.StringUPPER(ep.AuthMode)
		if !common.IsContainString([]string{common.AuthModeExternal, common.AuthModePassword}, ep.AuthMode) {
			return fmt.Errorf("config [%s] auth-mode value [%s] isn't support, only support [%s %s]",
				name, ep.AuthMode, common.AuthModeExternal, common.AuthModePassword)
		}
		if ep.Port == 0 {
			ep.Port = 1521
		}
		if strings.EqualFold(ep.AuthMode, common.AuthModePassword) {
			if ep.Host == "" || ep.Username == "" || ep.Password == "" {
				return fmt.Errorf("config [%s] host/username/password can not be null in PASSWORD auth mode", name)
			}
		}
	}
	return nil
}

func (c *Config) String() string {
	cfg, err := json.Marshal(c)
	if err != nil {
		return "<nil>"
	}
	return string(cfg)
}
