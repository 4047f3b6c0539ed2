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
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

var (
	clientOnce   sync.Once
	clientLibDir string
	clientErr    error
)

// EnsureClientInitialized 解析 Oracle 客户端库目录，进程级一次性初始化
// 幂等：多次调用返回首次解析结果。外部认证与数据库链路依赖 thick 模式客户端，
// 返回空目录表示交由驱动自行探测（LD_LIBRARY_PATH 等）
func EnsureClientInitialized(libDir string) (string, error) {
	clientOnce.Do(func() {
		clientLibDir, clientErr = resolveClientLibDir(libDir)
		if clientErr != nil {
			zap.L().Error("oracle client library init failed", zap.Error(clientErr))
			return
		}
		if clientLibDir == "" {
			zap.L().Info("oracle client library auto-detect, rely on driver default search path")
		} else {
			zap.L().Info("oracle client library resolved", zap.String("lib-dir", clientLibDir))
		}
	})
	return clientLibDir, clientErr
}

func resolveClientLibDir(libDir string) (string, error) {
	// 显式配置优先，配置了但不存在视为硬错误
	if libDir != "" {
		if fi, err := os.Stat(libDir); err != nil || !fi.IsDir() {
			return "", fmt.Errorf("configured oracle client lib-dir [%s] isn't accessible: %v", libDir, err)
		}
		return libDir, nil
	}

	var candidates []string
	if oracleHome := os.Getenv("ORACLE_HOME"); oracleHome != "" {
		candidates = append(candidates, filepath.Join(oracleHome, "lib"), oracleHome)
	}
	candidates = append(candidates,
		"/opt/oracle/instantclient_21_3",
		"/opt/oracle/instantclient_19_8",
		"/usr/lib/oracle/21/client64/lib",
		"/usr/lib/oracle/19.8/client64/lib",
	)
	for _, c := range candidates {
		if fi, err := os.Stat(c); err == nil && fi.IsDir() {
			return c, nil
		}
	}
	return "", nil
}
