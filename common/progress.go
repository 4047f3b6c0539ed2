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
package common

import "fmt"

// Progress 进度消息回调，仅用于界面展示，不参与控制流
// 允许为 nil，调用方统一通过 Emit 发送
type Progress func(msg string)

func (p Progress) Emit(format string, args ...interface{}) {
	if p == nil {
		return
	}
	if len(args) == 0 {
		p(format)
		return
	}
	p(fmt.Sprintf(format, args...))
}
