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
package oracle

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/godror/godror"
	"github.com/godror/godror/dsn"

	"github.com/oradba/pdbtoolkit/common"
	"github.com/oradba/pdbtoolkit/config"
)

// ConnectSpec 连接描述，三种封闭变体，配置边界处一次性校验
type ConnectSpec interface {
	ConnectString() string
	connectSpec()
}

// ExternalAuthAlias 外部认证 + tnsnames.ora 别名
type ExternalAuthAlias struct {
	Alias string
}

// ExternalAuthAddress 外部认证 + 主机直连
type ExternalAuthAddress struct {
	Host    string
	Port    int
	Service string
}

// UserPassword 用户名密码认证 + 主机直连
type UserPassword struct {
	Host     string
	Port     int
	Service  string
	Username string
	Password string
}

func (s ExternalAuthAlias) ConnectString() string { return s.Alias }
func (s ExternalAuthAddress) ConnectString() string {
	return common.StringsBuilder(s.Host, ":", strconv.Itoa(s.Port), "/", s.Service)
}
func (s UserPassword) ConnectString() string {
	return common.StringsBuilder(s.Host, ":", strconv.Itoa(s.Port), "/", s.Service)
}

func (ExternalAuthAlias) connectSpec()   {}
func (ExternalAuthAddress) connectSpec() {}
func (UserPassword) connectSpec()        {}

// BuildConnectSpec 由端点配置与目标服务名构造连接描述
// serviceName 传 CDB 或 PDB 服务名，克隆流程里同一端点会分别以两种服务名建连
func BuildConnectSpec(cfg config.EndpointConfig, serviceName string) (ConnectSpec, error) {
	switch cfg.AuthMode {
	case common.AuthModePassword:
		return UserPassword{
			Host:     cfg.Host,
			Port:     cfg.Port,
			Service:  serviceName,
			Username: cfg.Username,
			Password: cfg.Password,
		}, nil
	case common.AuthModeExternal:
		if cfg.Host != "" {
			return ExternalAuthAddress{Host: cfg.Host, Port: cfg.Port, Service: serviceName}, nil
		}
		if cfg.TNSAlias != "" {
			return ExternalAuthAlias{Alias: cfg.TNSAlias}, nil
		}
		return nil, fmt.Errorf("external auth endpoint requires tns-alias or host/port")
	default:
		return nil, fmt.Errorf("auth-mode [%s] isn't support", cfg.AuthMode)
	}
}

type Oracle struct {
	Ctx      context.Context
	OracleDB *sql.DB
}

// 创建 oracle 数据库引擎
// https://github.com/godror/godror/blob/db9cd12d89cdc1c60758aa3f36ece36cf5a61814/doc/connection.md
func NewOracleDBEngine(ctx context.Context, spec ConnectSpec, cfg config.EndpointConfig) (*sql.DB, error) {
	libDir, err := EnsureClientInitialized(cfg.LibDir)
	if err != nil {
		return nil, err
	}

	// 时区以及会话参数设置
	loc := time.Local
	if cfg.Timezone != "" {
		loc, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, err
		}
	}

	var sqlDB *sql.DB
	switch s := spec.(type) {
	case UserPassword:
		oraDsn := godror.ConnectionParams{
			CommonParams: godror.CommonParams{
				Username:      s.Username,
				ConnectString: s.ConnectString(),
				Password:      godror.NewPassword(s.Password),
				OnInitStmts:   cfg.SessionParams,
				Timezone:      loc,
			},
			PoolParams: godror.PoolParams{
				MinSessions:    dsn.DefaultPoolMinSessions,
				MaxSessions:    dsn.DefaultPoolMaxSessions,
				WaitTimeout:    dsn.DefaultWaitTimeout,
				MaxLifeTime:    dsn.DefaultMaxLifeTime,
				SessionTimeout: dsn.DefaultSessionTimeout,
			},
		}
		sqlDB = sql.OpenDB(godror.NewConnector(oraDsn))
	default:
		// 外部认证（操作系统/钱包），通过连接串参数走 thick 模式
		connStr := fmt.Sprintf("connectString=%q externalAuth=1", spec.ConnectString())
		if libDir != "" {
			connStr = fmt.Sprintf("%s libDir=%q", connStr, libDir)
		}
		oraDsn, err := godror.ParseDSN(connStr)
		if err != nil {
			return nil, fmt.Errorf("parse external auth dsn failed: %v", err)
		}
		oraDsn.OnInitStmts = cfg.SessionParams
		oraDsn.Timezone = loc
		sqlDB = sql.OpenDB(godror.NewConnector(oraDsn))
	}

	if err = sqlDB.PingContext(ctx); err != nil {
		return sqlDB, fmt.Errorf("error on ping oracle database connection [%s]: %v", spec.ConnectString(), err)
	}
	return sqlDB, nil
}

// NewOracleDB 建连并包装查询上下文
func NewOracleDB(ctx context.Context, spec ConnectSpec, cfg config.EndpointConfig) (*Oracle, error) {
	sqlDB, err := NewOracleDBEngine(ctx, spec, cfg)
	if err != nil {
		return nil, err
	}
	return &Oracle{Ctx: ctx, OracleDB: sqlDB}, nil
}

func (o *Oracle) Close() error {
	if o.OracleDB != nil {
		return o.OracleDB.Close()
	}
	return nil
}

// GetCurrentContainer 返回当前会话所处容器名（CDB$ROOT 或 PDB 名）
func (o *Oracle) GetCurrentContainer() (string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT SYS_CONTEXT('USERENV', 'CON_NAME') AS CON_NAME FROM dual`)
	if err != nil {
		return "", err
	}
	if len(res) == 0 {
		return "", fmt.Errorf("current container query returned no rows")
	}
	return res[0]["CON_NAME"], nil
}

// PingSelect 连通性验证
func (o *Oracle) PingSelect() (string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT 'Connection successful' AS VERDICT FROM dual`)
	if err != nil {
		return "", err
	}
	if len(res) == 0 {
		return "", fmt.Errorf("connection test query returned no rows")
	}
	return res[0]["VERDICT"], nil
}
